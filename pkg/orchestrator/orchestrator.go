// Package orchestrator owns the lifecycle of the single background research
// task per session: it starts the task, consumes its step and completion
// callbacks, drains the session's update queue on a fixed cadence into UI
// snapshots, and guarantees that cancellation and clearing always leave the
// session ready for the next run.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/entrhq/scout/pkg/config"
	"github.com/entrhq/scout/pkg/engine"
	"github.com/entrhq/scout/pkg/logging"
	"github.com/entrhq/scout/pkg/registry"
	"github.com/entrhq/scout/pkg/report"
	"github.com/entrhq/scout/pkg/session"
	"github.com/entrhq/scout/pkg/types"
)

// ErrEmptyIdentity is returned by Submit when the identity input is blank.
var ErrEmptyIdentity = errors.New("orchestrator: identity is required")

// ErrSessionBusy is returned by Submit while a task is already running.
var ErrSessionBusy = errors.New("orchestrator: a task is already running")

// ErrMissingCredentials is returned by Submit when portal credentials are
// not configured. It is the only error that blocks starting a run.
var ErrMissingCredentials = errors.New("orchestrator: portal credentials are not configured")

// State is the lifecycle state of the session's task.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sink consumes snapshot fragments emitted by the orchestrator. The web
// layer renders them; the orchestrator never touches pixels.
type Sink func(types.Update)

// Options configures timing and the portal the research task works against.
type Options struct {
	// PollInterval is the cadence of the snapshot loop.
	PollInterval time.Duration

	// CancelWait bounds the termination wait after Cancel.
	CancelWait time.Duration

	// ClearWait bounds the termination wait during Clear.
	ClearWait time.Duration

	// PortalURL is the research portal the task logs into.
	PortalURL string

	// PortalUsername and PortalPassword are the portal credentials, loaded
	// from the environment by the caller and never hardcoded.
	PortalUsername string
	PortalPassword string
}

func (o *Options) fillDefaults() {
	if o.PollInterval == 0 {
		o.PollInterval = 500 * time.Millisecond
	}
	if o.CancelWait == 0 {
		o.CancelWait = 2 * time.Second
	}
	if o.ClearWait == 0 {
		o.ClearWait = time.Second
	}
}

// Orchestrator drives one session. At most one background task is live at
// any time; Submit enforces that.
type Orchestrator struct {
	engine     engine.Engine
	registry   *registry.Registry
	store      config.Store
	classifier report.Classifier
	sink       Sink
	opts       Options
	log        *logging.Logger

	mu     sync.Mutex
	state  State
	sess   *session.Session
	handle engine.Handle

	// gen counts run generations. Submit and Clear advance it; callbacks
	// carry the generation they were started under and are dropped when it
	// no longer matches, so a task that outlives its bounded cancellation
	// wait can never mutate a reset session.
	gen int
}

// New creates an orchestrator for a fresh session.
func New(eng engine.Engine, reg *registry.Registry, store config.Store, sink Sink, opts Options) *Orchestrator {
	opts.fillDefaults()
	log, _ := logging.NewLogger("orchestrator")

	return &Orchestrator{
		engine:     eng,
		registry:   reg,
		store:      store,
		classifier: report.NewVocabClassifier(),
		sink:       sink,
		opts:       opts,
		log:        log,
		sess:       session.New(),
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Session exposes the session for read access by the web layer.
func (o *Orchestrator) Session() *session.Session {
	return o.sess
}

// Submit starts a research run for the given identity. It refuses a blank
// identity and refuses to start while a run is live. Per-run state is reset,
// a placeholder report is emitted immediately, and the poll loop starts
// consuming queued fragments.
func (o *Orchestrator) Submit(ctx context.Context, identity string) error {
	identity = strings.TrimSpace(identity)

	o.mu.Lock()
	if identity == "" {
		o.mu.Unlock()
		o.log.Warnf("submit rejected: empty identity")
		o.emitWarning("Enter a client business name before starting research.")
		return ErrEmptyIdentity
	}
	if o.state == StateStarting || o.state == StateRunning {
		o.mu.Unlock()
		o.log.Warnf("submit rejected: session busy")
		return ErrSessionBusy
	}
	if o.opts.PortalUsername == "" || o.opts.PortalPassword == "" {
		o.mu.Unlock()
		o.emitWarning("Portal credentials are not configured; set SCOUT_PORTAL_USERNAME and SCOUT_PORTAL_PASSWORD.")
		return ErrMissingCredentials
	}

	o.state = StateStarting
	o.gen++
	gen := o.gen
	o.sess.BeginRun(identity)
	o.mu.Unlock()

	// Immediate placeholder so the UI is never stale while the first step
	// runs.
	placeholder := report.Render(identity, report.NewFacts(), nil)
	o.sess.SetReport(placeholder)
	o.sess.Append(types.NewUserMessage("Research task started for: " + identity))
	o.emit(o.startSnapshot(placeholder))

	task := o.buildTask(identity)
	onStep := func(state engine.StepState) { o.onStep(gen, state) }
	onDone := func(history *engine.History) { o.onDone(gen, history) }
	handle, err := o.engine.Start(ctx, task, onStep, onDone)
	if err != nil {
		o.mu.Lock()
		o.state = StateFailed
		o.mu.Unlock()
		o.log.Errorf("engine start failed: %v", err)
		o.sess.Append(types.NewErrorMessage("Failed to start the research task: " + err.Error()))
		o.emit(o.terminalSnapshot())
		o.mu.Lock()
		o.state = StateIdle
		o.mu.Unlock()
		return err
	}

	o.mu.Lock()
	o.handle = handle
	o.state = StateRunning
	o.mu.Unlock()

	o.log.Infof("run started for identity %q", identity)
	go o.pollLoop(handle)
	return nil
}

// Cancel stops the running task: cooperative stop first, then forced
// cancel, waiting up to the configured bound. Wait errors are swallowed;
// from the caller's perspective cancellation always succeeds.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	if o.state != StateRunning || o.handle == nil {
		o.mu.Unlock()
		return
	}
	handle := o.handle
	o.state = StateCancelled
	o.mu.Unlock()

	o.log.Infof("cancelling run")
	o.stopAndWait(handle, o.opts.CancelWait)
}

// Clear cancels any running task with a shorter wait and then
// unconditionally resets all session state.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	handle := o.handle
	running := o.state == StateRunning
	if running {
		o.state = StateCancelled
	}
	// Invalidate callbacks from the old run before the reset, in case the
	// task outlives the bounded wait below.
	o.gen++
	o.mu.Unlock()

	if running && handle != nil {
		o.stopAndWait(handle, o.opts.ClearWait)
	}

	o.sess.Reset()

	o.mu.Lock()
	o.state = StateIdle
	o.handle = nil
	o.mu.Unlock()

	o.log.Infof("session cleared")
	o.emit(o.clearedSnapshot())
}

// staleGen reports whether a callback belongs to a run generation that has
// been cleared or superseded since it started.
func (o *Orchestrator) staleGen(gen int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return gen != o.gen
}

// stopAndWait requests a cooperative stop, forces a cancel, and waits for
// termination up to the timeout. A timeout is logged and swallowed.
func (o *Orchestrator) stopAndWait(handle engine.Handle, wait time.Duration) {
	handle.Stop()
	handle.Cancel()

	select {
	case <-handle.Done():
	case <-time.After(wait):
		o.log.Warnf("cancellation wait exceeded %s, proceeding anyway", wait)
	}
}

// SaveConfig snapshots the given slot values into the persistent store.
// Ids not present in the registry are skipped.
func (o *Orchestrator) SaveConfig(values map[string]interface{}) error {
	kept := make(map[string]interface{}, len(values))
	for id, value := range values {
		if _, ok := o.registry.Resolve(id); !ok {
			o.log.Warnf("save-config: skipping unregistered slot %q", id)
			continue
		}
		kept[id] = value
	}

	o.store.Replace(kept)
	if err := o.store.Save(); err != nil {
		return err
	}
	o.log.Infof("saved %d slot values", len(kept))
	return nil
}

// LoadConfig reads the saved slot values and emits one fragment restoring
// them. Ids absent from the current composition are skipped.
func (o *Orchestrator) LoadConfig() error {
	if err := o.store.Load(); err != nil {
		return err
	}

	fragment := types.NewUpdate()
	for id, value := range o.store.Values() {
		if _, ok := o.registry.Resolve(id); !ok {
			o.log.Warnf("load-config: skipping unknown slot %q", id)
			continue
		}
		fragment.Set(id, types.SetValue(value))
	}

	if len(fragment) > 0 {
		o.emit(fragment)
	}
	o.log.Infof("restored %d slot values", len(fragment))
	return nil
}

// emit hands a snapshot to the sink, dropping slot ids that are not part of
// the current UI composition.
func (o *Orchestrator) emit(fragment types.Update) {
	if o.sink == nil || len(fragment) == 0 {
		return
	}

	filtered := types.NewUpdate()
	for id, in := range fragment {
		if in.IsZero() {
			continue
		}
		if _, ok := o.registry.Resolve(id); ok {
			filtered.Set(id, in)
		}
	}
	if len(filtered) > 0 {
		o.sink(filtered)
	}
}

func (o *Orchestrator) emitWarning(message string) {
	o.sess.Append(types.NewErrorMessage(message))
	o.emit(types.NewUpdate().Set(SlotChatbot, types.SetValue(o.sess.Messages())))
}
