package browser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// stepDecision is what the model is asked to return for each step: a single
// JSON object naming one action.
type stepDecision struct {
	Thought     string `json:"thought"`
	Action      string `json:"action"`
	Target      string `json:"target,omitempty"`
	Value       string `json:"value,omitempty"`
	FinalResult string `json:"final_result,omitempty"`
}

const systemPrompt = `You are a browser automation agent researching a client's
marketing data in a web portal. You control a real browser one action at a
time.

Each turn you receive the current page URL and its visible text. Reply with a
single JSON object and nothing else:

{"thought": "...", "action": "...", "target": "...", "value": "...", "final_result": "..."}

Actions:
- navigate: open a URL. target is the URL.
- click: click an element. target is a CSS selector.
- fill: type into an input. target is a CSS selector, value is the text.
- extract: read the page content. target is an optional CSS selector.
- wait: wait for an element to appear. target is a CSS selector.
- done: the task is complete. final_result is everything you found, with
  keyword data formatted as lines "keyword: K, performance: P, sov: S" or as
  a pipe table with the header "keyword | performance | sov".

Keep thoughts to one or two sentences. Use one action per reply.`

// parseDecision extracts the decision object from a model reply. Code fences
// and surrounding prose are tolerated; only the first JSON object is read.
func parseDecision(content string) (*stepDecision, error) {
	raw := extractJSONObject(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in model reply")
	}

	var d stepDecision
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("failed to parse decision: %w", err)
	}

	d.Action = strings.ToLower(strings.TrimSpace(d.Action))
	if d.Action == "" {
		return nil, fmt.Errorf("decision has no action")
	}

	switch d.Action {
	case "navigate", "click", "fill", "extract", "wait", "done":
	default:
		return nil, fmt.Errorf("unknown action %q", d.Action)
	}

	return &d, nil
}

// extractJSONObject returns the first balanced top-level {...} block in s,
// or "" when none exists. Braces inside JSON strings are skipped.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
