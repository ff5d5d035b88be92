package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/scout/pkg/engine"
	"github.com/entrhq/scout/pkg/report"
	"github.com/entrhq/scout/pkg/types"
)

const maxThoughtLen = 200

// onStep runs on the task's goroutine after every step. It appends a
// transcript entry, feeds the step's text into the fact aggregator, renders
// the report from the updated facts, and queues one fragment. Aggregation
// and rendering happen under one session lock so a drained fragment always
// reflects facts as of its push. Callbacks from a run that has since been
// cleared or superseded are dropped by the generation check.
func (o *Orchestrator) onStep(gen int, state engine.StepState) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Errorf("step %d: callback panic: %v", state.Step, r)
		}
	}()

	if o.staleGen(gen) {
		o.log.Debugf("step %d: dropping callback from a stale run", state.Step)
		return
	}

	o.sess.Append(types.NewAssistantMessage(formatStep(state)))

	// Identity is fixed for the whole run; read it outside the facts lock.
	identity := o.sess.Identity()

	var html string
	o.sess.WithFacts(func(facts *report.Facts) {
		facts.Ingest(stepFragments(state), o.classifier)
		facts.AddPageURL(state.URL)
		facts.AddScreenshot(state.Screenshot)
		html = report.Render(identity, facts, nil)
	})
	o.sess.SetReport(html)

	fragment := types.NewUpdate().Set(SlotReport, types.SetValue(html))
	if state.Screenshot != "" {
		fragment.Set(SlotBrowserView, types.SetValue(state.Screenshot))
	}
	o.sess.Queue().Push(fragment)
}

// onDone runs exactly once at task termination. It records the run summary,
// runs the final extraction pass over the result, renders the final report,
// and moves the session to its terminal state. Task failures become visible
// transcript entries, never process errors.
func (o *Orchestrator) onDone(gen int, history *engine.History) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Errorf("completion callback panic: %v", r)
		}
	}()

	if o.staleGen(gen) {
		o.log.Debugf("dropping completion callback from a stale run")
		return
	}

	failed := len(history.Errors()) > 0
	for _, msg := range history.Errors() {
		o.sess.Append(types.NewErrorMessage(msg))
	}
	o.sess.Append(types.NewAssistantMessage(formatSummary(history)))

	final := history.FinalResult()
	identity := o.sess.Identity()
	var html string
	o.sess.WithFacts(func(facts *report.Facts) {
		if text, ok := final.(string); ok {
			facts.IngestFinalResult(text)
		}
		html = report.Render(identity, facts, final)
	})
	o.sess.SetReport(html)

	o.mu.Lock()
	if o.state == StateRunning {
		if failed {
			o.state = StateFailed
		} else {
			o.state = StateCompleted
		}
	}
	o.mu.Unlock()
	o.log.Infof("run finished: %s, %d errors, %s", o.State(), len(history.Errors()), history.TotalDuration())
}

// stepFragments collects the free-text pieces of a step for aggregation.
func stepFragments(state engine.StepState) []string {
	fragments := make([]string, 0, len(state.Actions)*2)
	for _, action := range state.Actions {
		fragments = append(fragments, action.Thought, action.Result)
	}
	return fragments
}

// formatStep renders a step as one transcript entry.
func formatStep(state engine.StepState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Step %d", state.Step)
	if state.URL != "" {
		fmt.Fprintf(&b, " @ %s", state.URL)
	}
	if state.Title != "" {
		fmt.Fprintf(&b, " (%s)", state.Title)
	}
	for _, action := range state.Actions {
		fmt.Fprintf(&b, "\n- %s", action.Summary())
		if action.Result != "" {
			fmt.Fprintf(&b, ": %s", truncate(action.Result, maxThoughtLen))
		}
		if action.Thought != "" {
			fmt.Fprintf(&b, "\n  thought: %s", truncate(action.Thought, maxThoughtLen))
		}
	}
	return b.String()
}

// formatSummary renders the terminal transcript entry.
func formatSummary(history *engine.History) string {
	status := "Success"
	if len(history.Errors()) > 0 {
		status = fmt.Sprintf("Finished with %d errors", len(history.Errors()))
	}

	summary := fmt.Sprintf("Task finished in %s. Status: %s.",
		history.TotalDuration().Round(100*time.Millisecond), status)
	if text, ok := history.FinalResult().(string); ok && text != "" {
		summary += "\nFinal result:\n" + text
	}
	return summary
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
