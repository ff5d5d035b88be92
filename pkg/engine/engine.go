// Package engine defines the boundary between the orchestration core and
// the browser automation capability. The core starts a task, receives step
// and completion callbacks, and can stop or cancel the run; everything about
// how the browser is driven stays behind this interface.
package engine

import (
	"context"
	"time"
)

// StepState is the observable state of the automation at one step. It is
// handed to the step callback after the step's actions have executed.
type StepState struct {
	// Step is the 1-based index of the step within the run.
	Step int

	// URL is the page URL at the end of the step.
	URL string

	// Title is the page title at the end of the step, empty when the page
	// has none.
	Title string

	// Screenshot is a base64-encoded PNG of the page, empty when capture
	// failed or was disabled.
	Screenshot string

	// PageText is the visible text of the page after the step.
	PageText string

	// Actions are the actions the agent took during the step.
	Actions []Action
}

// Action is one agent decision within a step.
type Action struct {
	// Type names the action: "navigate", "click", "fill", "extract",
	// "wait", "done".
	Type string

	// Thought is the agent's reasoning for the action, possibly truncated.
	Thought string

	// Target is the selector or URL the action operated on.
	Target string

	// Value is the input value for fill actions.
	Value string

	// Result is the textual outcome of executing the action, including
	// extracted content for extract actions.
	Result string
}

// Summary returns a short human-readable description of the action.
func (a Action) Summary() string {
	if a.Target == "" {
		return a.Type
	}
	return a.Type + " " + a.Target
}

// StepFunc is invoked after each completed step. Implementations must not
// assume it is panic-free; the caller recovers.
type StepFunc func(state StepState)

// DoneFunc is invoked exactly once when the run finishes, whether it
// completed, failed, or was stopped.
type DoneFunc func(history *History)

// History is the final record of a run.
type History struct {
	final    interface{}
	errs     []string
	duration time.Duration
}

// NewHistory builds a run record. Engine implementations call this when a
// run terminates.
func NewHistory(final interface{}, errs []string, duration time.Duration) *History {
	return &History{final: final, errs: errs, duration: duration}
}

// FinalResult returns the run's final result, or nil when the run produced
// none (failure or cancellation before completion).
func (h *History) FinalResult() interface{} {
	return h.final
}

// Errors returns the error messages accumulated over the run, in order.
func (h *History) Errors() []string {
	return h.errs
}

// TotalDuration returns the wall-clock duration of the run.
func (h *History) TotalDuration() time.Duration {
	return h.duration
}

// Handle controls one in-flight run.
type Handle interface {
	// Stop requests a cooperative stop: the run finishes its current step
	// and then terminates. Safe to call more than once.
	Stop()

	// Cancel forces the run down immediately. The completion callback
	// still fires.
	Cancel()

	// Done is closed after the completion callback has returned.
	Done() <-chan struct{}
}

// Engine starts background research tasks.
type Engine interface {
	// Start launches the task described by the given prompt on a fresh
	// browser page. onStep fires after every step; onDone fires exactly
	// once at termination. Start returns an error only when the run could
	// not begin at all.
	Start(ctx context.Context, task string, onStep StepFunc, onDone DoneFunc) (Handle, error)
}

// LiveViewer is an optional capability of an Engine: a point-in-time
// screenshot of the page, independent of step cadence.
type LiveViewer interface {
	LiveView(ctx context.Context) (string, error)
}
