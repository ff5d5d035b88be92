package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name    string
		content string
		action  string
		wantErr bool
	}{
		{
			name:    "plain object",
			content: `{"thought": "open the portal", "action": "navigate", "target": "https://portal.example.com"}`,
			action:  "navigate",
		},
		{
			name:    "fenced with prose",
			content: "Here is my next step:\n```json\n{\"action\": \"click\", \"target\": \"#login\"}\n```",
			action:  "click",
		},
		{
			name:    "done with final result",
			content: `{"action": "done", "final_result": "keyword: dentist, performance: 10, sov: 2"}`,
			action:  "done",
		},
		{
			name:    "uppercase action normalized",
			content: `{"action": "FILL", "target": "#user", "value": "x"}`,
			action:  "fill",
		},
		{
			name:    "brace inside string value",
			content: `{"action": "fill", "target": "#q", "value": "a{b}c"}`,
			action:  "fill",
		},
		{
			name:    "no json",
			content: "I am not sure what to do next.",
			wantErr: true,
		},
		{
			name:    "unknown action",
			content: `{"action": "teleport"}`,
			wantErr: true,
		},
		{
			name:    "missing action",
			content: `{"thought": "hmm"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := parseDecision(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.action, d.Action)
		})
	}
}

func TestExtractJSONObjectBalanced(t *testing.T) {
	assert.Equal(t, `{"a": {"b": 1}}`, extractJSONObject(`x {"a": {"b": 1}} y`))
	assert.Empty(t, extractJSONObject(`{"unclosed": 1`))
	assert.Empty(t, extractJSONObject(`no braces here`))
}
