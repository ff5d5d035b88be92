package types

import (
	"testing"
)

func TestInstructionConstructors(t *testing.T) {
	t.Run("SetValue carries the value", func(t *testing.T) {
		in := SetValue("hello")
		if !in.HasValue {
			t.Error("expected HasValue to be set")
		}
		if in.Value != "hello" {
			t.Errorf("expected value %q, got %v", "hello", in.Value)
		}
		if in.Visible != nil || in.Interactive != nil {
			t.Error("SetValue should not touch visibility or interactivity")
		}
	})

	t.Run("SetValue with nil clears the slot", func(t *testing.T) {
		in := SetValue(nil)
		if !in.HasValue {
			t.Error("expected HasValue to be set for a clear")
		}
		if in.Value != nil {
			t.Errorf("expected nil value, got %v", in.Value)
		}
	})

	t.Run("SetVisible toggles visibility only", func(t *testing.T) {
		in := SetVisible(false)
		if in.Visible == nil || *in.Visible {
			t.Error("expected visibility false")
		}
		if in.HasValue {
			t.Error("SetVisible should not carry a value")
		}
	})

	t.Run("SetInteractive toggles interactivity only", func(t *testing.T) {
		in := SetInteractive(true)
		if in.Interactive == nil || !*in.Interactive {
			t.Error("expected interactive true")
		}
	})

	t.Run("chaining combines operations", func(t *testing.T) {
		in := SetValue("report").WithVisible(true).WithInteractive(false)
		if !in.HasValue || in.Value != "report" {
			t.Error("expected value to survive chaining")
		}
		if in.Visible == nil || !*in.Visible {
			t.Error("expected visible true")
		}
		if in.Interactive == nil || *in.Interactive {
			t.Error("expected interactive false")
		}
	})

	t.Run("zero instruction reports IsZero", func(t *testing.T) {
		var in Instruction
		if !in.IsZero() {
			t.Error("zero instruction should report IsZero")
		}
		if SetVisible(true).IsZero() {
			t.Error("non-empty instruction should not report IsZero")
		}
	})
}

func TestUpdateMerge(t *testing.T) {
	t.Run("later instruction wins per slot", func(t *testing.T) {
		a := NewUpdate().Set("tab.report", SetValue("v1"))
		b := NewUpdate().Set("tab.report", SetValue("v2")).Set("tab.run", SetInteractive(true))

		a.Merge(b)

		if len(a) != 2 {
			t.Fatalf("expected 2 instructions after merge, got %d", len(a))
		}
		if a["tab.report"].Value != "v2" {
			t.Errorf("expected merged value v2, got %v", a["tab.report"].Value)
		}
	})

	t.Run("merge nil is a no-op", func(t *testing.T) {
		a := NewUpdate().Set("tab.report", SetValue("v1"))
		a.Merge(nil)
		if len(a) != 1 {
			t.Errorf("expected 1 instruction, got %d", len(a))
		}
	})

	t.Run("clone is independent", func(t *testing.T) {
		a := NewUpdate().Set("tab.report", SetValue("v1"))
		c := a.Clone()
		c.Set("tab.report", SetValue("v2"))
		if a["tab.report"].Value != "v1" {
			t.Error("clone mutation leaked into original")
		}
	})
}

func TestMessageRoles(t *testing.T) {
	tests := []struct {
		name    string
		msg     *Message
		role    MessageRole
		isError bool
	}{
		{name: "user", msg: NewUserMessage("hi"), role: RoleUser},
		{name: "assistant", msg: NewAssistantMessage("working"), role: RoleAssistant},
		{name: "system", msg: NewSystemMessage("prompt"), role: RoleSystem},
		{name: "error", msg: NewErrorMessage("boom"), role: RoleError, isError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.msg.Role != tt.role {
				t.Errorf("expected role %s, got %s", tt.role, tt.msg.Role)
			}
			if tt.msg.IsError() != tt.isError {
				t.Errorf("IsError: expected %v", tt.isError)
			}
		})
	}
}
