// Package types defines the shared value types exchanged between the
// orchestration core and the UI layer: display instructions addressed to
// named UI slots, the update fragments that carry them, and transcript
// messages.
package types

// Instruction describes what a UI slot should do with itself. It mirrors the
// three display operations the core is allowed to emit: set a value, toggle
// visibility, and toggle interactivity. An instruction may combine any subset
// of the three; unset fields leave the slot's current state untouched.
type Instruction struct {
	// Value is the opaque display value (text, table data, HTML block).
	// Only meaningful when HasValue is true.
	Value interface{}

	// HasValue indicates whether Value should be applied. A nil Value with
	// HasValue set clears the slot.
	HasValue bool

	// Visible toggles slot visibility when non-nil.
	Visible *bool

	// Interactive toggles whether the slot accepts input when non-nil.
	Interactive *bool
}

// SetValue creates an instruction that replaces the slot's display value.
func SetValue(value interface{}) Instruction {
	return Instruction{Value: value, HasValue: true}
}

// SetVisible creates an instruction that toggles slot visibility.
func SetVisible(visible bool) Instruction {
	return Instruction{Visible: &visible}
}

// SetInteractive creates an instruction that toggles slot interactivity.
func SetInteractive(interactive bool) Instruction {
	return Instruction{Interactive: &interactive}
}

// WithVisible returns a copy of the instruction with visibility set.
func (i Instruction) WithVisible(visible bool) Instruction {
	i.Visible = &visible
	return i
}

// WithInteractive returns a copy of the instruction with interactivity set.
func (i Instruction) WithInteractive(interactive bool) Instruction {
	i.Interactive = &interactive
	return i
}

// IsZero reports whether the instruction carries no operation at all.
func (i Instruction) IsZero() bool {
	return !i.HasValue && i.Visible == nil && i.Interactive == nil
}

// Update is one pending UI snapshot fragment: a mapping from slot id
// ("<tab>.<field>") to the instruction for that slot. Fragments are produced
// by step and completion callbacks, handed off by value into the session's
// update queue, and consumed exactly once by the orchestrator's poll loop.
type Update map[string]Instruction

// NewUpdate creates an empty update fragment.
func NewUpdate() Update {
	return make(Update)
}

// Set records an instruction for the given slot id and returns the update
// for chaining. A later Set for the same id replaces the earlier one.
func (u Update) Set(id string, in Instruction) Update {
	u[id] = in
	return u
}

// Merge folds other into u, later instructions winning per slot id.
// Merging a nil update is a no-op.
func (u Update) Merge(other Update) Update {
	for id, in := range other {
		u[id] = in
	}
	return u
}

// Clone returns an independent copy of the update.
func (u Update) Clone() Update {
	c := make(Update, len(u))
	for id, in := range u {
		c[id] = in
	}
	return c
}
