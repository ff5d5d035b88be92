// Package browser implements the engine boundary on a real Chromium
// instance driven through Playwright. One engine owns one Playwright
// process; each run gets a fresh browser, context, and page.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/scout/pkg/engine"
	"github.com/entrhq/scout/pkg/llm"
	"github.com/entrhq/scout/pkg/logging"
)

// ErrTaskRunning is returned by Start while a previous run is still live.
var ErrTaskRunning = errors.New("browser: a task is already running")

// ErrNotInitialized is returned by Start before Initialize has succeeded.
var ErrNotInitialized = errors.New("browser: engine not initialized")

// Options configures the browser engine.
type Options struct {
	// Headless runs Chromium without a visible window.
	Headless bool

	// ViewportWidth and ViewportHeight size the page viewport.
	ViewportWidth  int
	ViewportHeight int

	// MaxSteps bounds the number of agent steps per run.
	MaxSteps int

	// ActionTimeout is the per-action Playwright timeout in milliseconds.
	ActionTimeout float64

	// PageTextLimit truncates extracted page text handed to the model.
	PageTextLimit int

	// RecordingDir, when set, saves a video of each run's context there.
	RecordingDir string
}

// DefaultOptions returns the options used when a zero value is passed.
func DefaultOptions() Options {
	return Options{
		Headless:       true,
		ViewportWidth:  1280,
		ViewportHeight: 800,
		MaxSteps:       40,
		ActionTimeout:  15000,
		PageTextLimit:  8000,
	}
}

// Engine drives research tasks in Chromium. It implements engine.Engine and
// engine.LiveViewer.
type Engine struct {
	provider llm.Provider
	opts     Options
	log      *logging.Logger

	mu          sync.Mutex
	pw          *playwright.Playwright
	initialized bool
	running     bool

	// pageMu serializes page access between the run goroutine and
	// LiveView calls from the poll loop.
	pageMu     sync.Mutex
	runBrowser playwright.Browser
	runContext playwright.BrowserContext
	page       playwright.Page
}

// New creates an engine that uses the given provider to decide steps.
// Zero-valued options are filled from DefaultOptions.
func New(provider llm.Provider, opts Options) *Engine {
	defaults := DefaultOptions()
	if opts.ViewportWidth == 0 {
		opts.ViewportWidth = defaults.ViewportWidth
	}
	if opts.ViewportHeight == 0 {
		opts.ViewportHeight = defaults.ViewportHeight
	}
	if opts.MaxSteps == 0 {
		opts.MaxSteps = defaults.MaxSteps
	}
	if opts.ActionTimeout == 0 {
		opts.ActionTimeout = defaults.ActionTimeout
	}
	if opts.PageTextLimit == 0 {
		opts.PageTextLimit = defaults.PageTextLimit
	}

	log, _ := logging.NewLogger("browser-engine")
	return &Engine{
		provider: provider,
		opts:     opts,
		log:      log,
	}
}

// Initialize installs and starts Playwright. Must be called before the
// first run. Output is discarded so the driver install does not write to
// the process's terminal.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}

	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("browser: playwright install failed: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("browser: playwright start failed: %w", err)
	}

	e.pw = pw
	e.initialized = true
	e.log.Infof("playwright initialized")
	return nil
}

// Start launches the task on a fresh page. It fails fast when the engine is
// uninitialized or a run is already live.
func (e *Engine) Start(ctx context.Context, task string, onStep engine.StepFunc, onDone engine.DoneFunc) (engine.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, ErrNotInitialized
	}
	if e.running {
		return nil, ErrTaskRunning
	}

	if err := e.openPage(); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	h := &handle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	e.running = true
	e.log.Infof("starting run, max %d steps", e.opts.MaxSteps)
	go e.run(runCtx, task, h, onStep, onDone)

	return h, nil
}

// openPage launches a browser, context, and page for one run. Caller holds
// e.mu.
func (e *Engine) openPage() error {
	browser, err := e.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(e.opts.Headless),
	})
	if err != nil {
		return fmt.Errorf("browser: launch failed: %w", err)
	}

	ctxOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  e.opts.ViewportWidth,
			Height: e.opts.ViewportHeight,
		},
	}
	if e.opts.RecordingDir != "" {
		ctxOpts.RecordVideo = &playwright.RecordVideo{Dir: e.opts.RecordingDir}
	}
	bctx, err := browser.NewContext(ctxOpts)
	if err != nil {
		browser.Close()
		return fmt.Errorf("browser: context creation failed: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		return fmt.Errorf("browser: page creation failed: %w", err)
	}
	page.SetDefaultTimeout(e.opts.ActionTimeout)

	e.pageMu.Lock()
	e.runBrowser = browser
	e.runContext = bctx
	e.page = page
	e.pageMu.Unlock()
	return nil
}

// closeRun tears down the per-run browser resources.
func (e *Engine) closeRun() {
	e.pageMu.Lock()
	if e.page != nil {
		_ = e.page.Close()
		e.page = nil
	}
	if e.runContext != nil {
		_ = e.runContext.Close()
		e.runContext = nil
	}
	if e.runBrowser != nil {
		_ = e.runBrowser.Close()
		e.runBrowser = nil
	}
	e.pageMu.Unlock()

	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
}

// LiveView returns a point-in-time base64 PNG of the active page.
func (e *Engine) LiveView(ctx context.Context) (string, error) {
	e.pageMu.Lock()
	defer e.pageMu.Unlock()

	if e.page == nil {
		return "", errors.New("browser: no active page")
	}
	return screenshotLocked(e.page)
}

// Shutdown closes any live run resources and stops Playwright.
func (e *Engine) Shutdown() error {
	e.closeRun()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized && e.pw != nil {
		if err := e.pw.Stop(); err != nil {
			return fmt.Errorf("browser: playwright stop failed: %w", err)
		}
		e.initialized = false
	}
	e.log.Infof("engine shut down")
	return nil
}

// handle controls one in-flight run.
type handle struct {
	stopped atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Stop requests a cooperative stop at the next step boundary.
func (h *handle) Stop() {
	h.stopped.Store(true)
}

// Cancel forces the run's context down.
func (h *handle) Cancel() {
	h.cancel()
}

// Done reports run termination after the completion callback returned.
func (h *handle) Done() <-chan struct{} {
	return h.done
}
