package browser

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/scout/pkg/engine"
	"github.com/entrhq/scout/pkg/types"
)

// run is the step loop of one research task. Each iteration asks the model
// for one action, executes it, reports the resulting page state through the
// step callback, and feeds an observation back into the conversation. The
// loop ends on done, stop, cancel, error, or the step cap.
func (e *Engine) run(ctx context.Context, task string, h *handle, onStep engine.StepFunc, onDone engine.DoneFunc) {
	start := time.Now()
	var errs []string
	var final interface{}

	conversation := []*types.Message{
		types.NewSystemMessage(systemPrompt),
		types.NewUserMessage(task),
	}

loop:
	for step := 1; step <= e.opts.MaxSteps; step++ {
		if h.stopped.Load() {
			errs = append(errs, "run stopped by operator")
			break
		}
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Sprintf("run cancelled: %v", ctx.Err()))
			break loop
		default:
		}

		reply, err := e.provider.Complete(ctx, conversation)
		if err != nil {
			errs = append(errs, fmt.Sprintf("step %d: completion failed: %v", step, err))
			e.log.Errorf("step %d: completion failed: %v", step, err)
			break
		}
		conversation = append(conversation, types.NewAssistantMessage(reply.Content))

		decision, err := parseDecision(reply.Content)
		if err != nil {
			errs = append(errs, fmt.Sprintf("step %d: %v", step, err))
			e.log.Warnf("step %d: unparseable reply: %v", step, err)
			conversation = append(conversation, types.NewUserMessage(
				"Your reply could not be parsed ("+err.Error()+"). Reply with a single JSON object."))
			continue
		}

		action := engine.Action{
			Type:    decision.Action,
			Thought: decision.Thought,
			Target:  decision.Target,
			Value:   decision.Value,
		}

		if decision.Action == "done" {
			if decision.FinalResult != "" {
				final = decision.FinalResult
			}
			e.safeStep(onStep, e.captureState(step, action))
			e.log.Infof("run completed at step %d", step)
			break
		}

		result, err := e.execute(decision)
		if err != nil {
			action.Result = "error: " + err.Error()
			errs = append(errs, fmt.Sprintf("step %d: %s failed: %v", step, decision.Action, err))
			e.log.Warnf("step %d: %s failed: %v", step, decision.Action, err)
		} else {
			action.Result = result
		}

		state := e.captureState(step, action)
		e.safeStep(onStep, state)

		conversation = append(conversation, types.NewUserMessage(observation(state, action)))
	}

	e.closeRun()

	history := engine.NewHistory(final, errs, time.Since(start))
	e.safeDone(onDone, history)
	close(h.done)
}

// execute performs one decided action against the page.
func (e *Engine) execute(d *stepDecision) (string, error) {
	e.pageMu.Lock()
	defer e.pageMu.Unlock()

	if e.page == nil {
		return "", fmt.Errorf("no active page")
	}

	switch d.Action {
	case "navigate":
		if _, err := e.page.Goto(d.Target, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		}); err != nil {
			return "", fmt.Errorf("navigation failed: %w", err)
		}
		return "opened " + e.page.URL(), nil

	case "click":
		if err := e.page.Click(d.Target, playwright.PageClickOptions{}); err != nil {
			return "", fmt.Errorf("click failed: %w", err)
		}
		return "clicked " + d.Target, nil

	case "fill":
		if err := e.page.Fill(d.Target, d.Value, playwright.PageFillOptions{}); err != nil {
			return "", fmt.Errorf("fill failed: %w", err)
		}
		return "filled " + d.Target, nil

	case "wait":
		if _, err := e.page.WaitForSelector(d.Target, playwright.PageWaitForSelectorOptions{}); err != nil {
			return "", fmt.Errorf("wait failed: %w", err)
		}
		return d.Target + " appeared", nil

	case "extract":
		return e.extractLocked(d.Target)

	default:
		return "", fmt.Errorf("unsupported action %q", d.Action)
	}
}

// extractLocked reads visible text from the page or a selector within it.
// Caller holds pageMu.
func (e *Engine) extractLocked(selector string) (string, error) {
	if selector != "" {
		element, err := e.page.QuerySelector(selector)
		if err != nil {
			return "", fmt.Errorf("selector query failed: %w", err)
		}
		if element == nil {
			return "", fmt.Errorf("no element found matching selector: %s", selector)
		}
		text, err := element.TextContent()
		if err != nil {
			return "", fmt.Errorf("text extraction failed: %w", err)
		}
		if e.opts.PageTextLimit > 0 && len(text) > e.opts.PageTextLimit {
			text = text[:e.opts.PageTextLimit] + "\n[truncated]"
		}
		return text, nil
	}

	raw, err := e.page.Content()
	if err != nil {
		return "", fmt.Errorf("content read failed: %w", err)
	}
	return visibleText(raw, e.opts.PageTextLimit)
}

// captureState snapshots the page after an action. Capture failures are
// logged and leave the corresponding field empty; a step never fails just
// because a screenshot did.
func (e *Engine) captureState(step int, actions ...engine.Action) engine.StepState {
	e.pageMu.Lock()
	defer e.pageMu.Unlock()

	state := engine.StepState{Step: step, Actions: actions}
	if e.page == nil {
		return state
	}

	state.URL = e.page.URL()

	if shot, err := screenshotLocked(e.page); err != nil {
		e.log.Warnf("step %d: screenshot failed: %v", step, err)
	} else {
		state.Screenshot = shot
	}

	if raw, err := e.page.Content(); err != nil {
		e.log.Warnf("step %d: content read failed: %v", step, err)
	} else {
		state.Title = pageTitle(raw)
		if text, err := visibleText(raw, e.opts.PageTextLimit); err != nil {
			e.log.Warnf("step %d: text extraction failed: %v", step, err)
		} else {
			state.PageText = text
		}
	}

	return state
}

// screenshotLocked takes a base64 PNG of the page. Caller holds pageMu.
func screenshotLocked(page playwright.Page) (string, error) {
	data, err := page.Screenshot(playwright.PageScreenshotOptions{
		Type: playwright.ScreenshotTypePng,
	})
	if err != nil {
		return "", fmt.Errorf("screenshot failed: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// observation formats the post-action page state fed back to the model.
func observation(state engine.StepState, action engine.Action) string {
	return fmt.Sprintf("Action result: %s\nCurrent URL: %s\nVisible page text:\n%s",
		action.Result, state.URL, state.PageText)
}

// safeStep invokes the step callback, recovering and logging panics so a
// broken callback never kills the run.
func (e *Engine) safeStep(onStep engine.StepFunc, state engine.StepState) {
	if onStep == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("step callback panic: %v", r)
		}
	}()
	onStep(state)
}

// safeDone invokes the completion callback with the same recovery.
func (e *Engine) safeDone(onDone engine.DoneFunc, history *engine.History) {
	if onDone == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("completion callback panic: %v", r)
		}
	}()
	onDone(history)
}
