package orchestrator

import (
	"context"
	"time"

	"github.com/entrhq/scout/pkg/engine"
	"github.com/entrhq/scout/pkg/types"
)

// pollLoop is the snapshot consumer for one run. Each tick it drains the
// update queue into one merged fragment, refreshes the transcript when it
// grew, and attempts a best-effort live screenshot. The loop exits when the
// task terminates, after which exactly one terminal snapshot is emitted.
func (o *Orchestrator) pollLoop(handle engine.Handle) {
	ticker := time.NewTicker(o.opts.PollInterval)
	defer ticker.Stop()

	lastTranscript := o.sess.TranscriptLen()

	for {
		select {
		case <-handle.Done():
			o.drainAndEmit()
			o.finishRun()
			return
		case <-ticker.C:
			o.drainAndEmit()
			o.emitTranscriptGrowth(&lastTranscript)
			o.emitLiveView()
		}
	}
}

// drainAndEmit empties the queue and emits everything as one snapshot,
// later instructions winning per slot. Nothing is emitted on an empty
// drain.
func (o *Orchestrator) drainAndEmit() {
	fragments := o.sess.Queue().DrainAll()
	if len(fragments) == 0 {
		return
	}

	merged := types.NewUpdate()
	for _, fragment := range fragments {
		merged.Merge(fragment)
	}
	o.emit(merged)
}

// emitTranscriptGrowth yields a transcript refresh when entries were added
// since the previous tick.
func (o *Orchestrator) emitTranscriptGrowth(last *int) {
	current := o.sess.TranscriptLen()
	if current == *last {
		return
	}
	*last = current
	o.emit(types.NewUpdate().Set(SlotChatbot, types.SetValue(o.sess.Messages())))
}

// emitLiveView pushes a current screenshot when the engine supports it.
// Failures are logged and skipped; they never abort the loop.
func (o *Orchestrator) emitLiveView() {
	viewer, ok := o.engine.(engine.LiveViewer)
	if !ok {
		return
	}

	shot, err := viewer.LiveView(context.Background())
	if err != nil {
		o.log.Debugf("live view skipped: %v", err)
		return
	}
	if shot != "" {
		o.emit(types.NewUpdate().Set(SlotBrowserView, types.SetValue(shot)))
	}
}

// finishRun emits the terminal snapshot and returns the session to idle,
// ready for the next submit.
func (o *Orchestrator) finishRun() {
	o.emit(o.terminalSnapshot())

	o.mu.Lock()
	o.state = StateIdle
	o.handle = nil
	o.mu.Unlock()
}
