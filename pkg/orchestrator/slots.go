package orchestrator

import (
	"github.com/entrhq/scout/pkg/types"
)

// Slot ids of the research tab. The settings tabs register their own ids;
// the orchestrator only needs the ones it writes to.
const (
	SlotChatbot     = "research.chatbot"
	SlotIdentity    = "research.identity"
	SlotRunButton   = "research.run-button"
	SlotStopButton  = "research.stop-button"
	SlotClearButton = "research.clear-button"
	SlotBrowserView = "research.browser-view"
	SlotReport      = "research.report"
)

// startSnapshot is the fragment emitted immediately on submit: the
// placeholder report, the transcript, and controls flipped for a live run.
func (o *Orchestrator) startSnapshot(reportHTML string) types.Update {
	return types.NewUpdate().
		Set(SlotReport, types.SetValue(reportHTML)).
		Set(SlotChatbot, types.SetValue(o.sess.Messages())).
		Set(SlotBrowserView, types.SetVisible(true)).
		Set(SlotRunButton, types.SetInteractive(false)).
		Set(SlotStopButton, types.SetInteractive(true))
}

// terminalSnapshot carries the final report and re-enables the start
// control. The stop control is disabled; controls are never left stuck.
func (o *Orchestrator) terminalSnapshot() types.Update {
	return types.NewUpdate().
		Set(SlotReport, types.SetValue(o.sess.Report())).
		Set(SlotChatbot, types.SetValue(o.sess.Messages())).
		Set(SlotRunButton, types.SetInteractive(true)).
		Set(SlotStopButton, types.SetInteractive(false))
}

// clearedSnapshot resets the research tab to its empty state.
func (o *Orchestrator) clearedSnapshot() types.Update {
	return types.NewUpdate().
		Set(SlotIdentity, types.SetValue("").WithInteractive(true)).
		Set(SlotChatbot, types.SetValue(o.sess.Messages())).
		Set(SlotReport, types.SetValue("")).
		Set(SlotBrowserView, types.SetValue("").WithVisible(false)).
		Set(SlotRunButton, types.SetInteractive(true)).
		Set(SlotStopButton, types.SetInteractive(false))
}
