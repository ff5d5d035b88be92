// Package registry maintains the bidirectional mapping between stable slot
// identifiers ("<tab>.<field>") and the opaque UI component handles the
// presentation layer creates at composition time. Every other package
// addresses UI slots only through ids; the registry is the single owner of
// the handles.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrDuplicateSlot is returned when a composed slot id is registered twice.
	ErrDuplicateSlot = errors.New("slot id already registered")

	// ErrUnknownSlot is returned by Reverse for a handle that was never registered.
	ErrUnknownSlot = errors.New("slot handle not registered")

	// ErrDuplicateHandle is returned when one handle is registered under two ids.
	ErrDuplicateHandle = errors.New("slot handle already registered")
)

// Slot is an opaque handle to a UI component. Handles are created by the
// presentation layer and must be comparable; pointer types satisfy this.
type Slot interface{}

// Registry stores slot registrations for one UI composition. Registration is
// append-only within a session: there is no removal operation, and a fresh
// session gets a fresh registry. The two internal maps are kept as mutual
// inverses at all times.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]Slot
	bySlot map[Slot]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byID:   make(map[string]Slot),
		bySlot: make(map[Slot]string),
	}
}

// Register stores each field of a tab under the composed id
// "<tab>.<field>" together with its inverse mapping. It fails with
// ErrDuplicateSlot if any composed id already exists and with
// ErrDuplicateHandle if any handle is already bound to another id; on
// failure nothing from the failing call is kept.
func (r *Registry) Register(tab string, fields map[string]Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate the whole batch before touching either map so a partial
	// registration can never break the inverse invariant.
	seen := make(map[Slot]string, len(fields))
	for field, slot := range fields {
		id := tab + "." + field
		if _, exists := r.byID[id]; exists {
			return fmt.Errorf("register %q: %w", id, ErrDuplicateSlot)
		}
		if _, exists := r.bySlot[slot]; exists {
			return fmt.Errorf("register %q: %w", id, ErrDuplicateHandle)
		}
		if other, exists := seen[slot]; exists {
			return fmt.Errorf("register %q and %q: %w", other, id, ErrDuplicateHandle)
		}
		seen[slot] = id
	}

	for field, slot := range fields {
		id := tab + "." + field
		r.byID[id] = slot
		r.bySlot[slot] = id
	}
	return nil
}

// Resolve looks up the handle for a slot id. The second return value is
// false when the id is absent from the current composition; callers must
// handle absence rather than assume every id exists.
func (r *Registry) Resolve(id string) (Slot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, ok := r.byID[id]
	return slot, ok
}

// Reverse returns the id a handle was registered under. It fails with
// ErrUnknownSlot for handles that never passed through Register.
func (r *Registry) Reverse(slot Slot) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlot[slot]
	if !ok {
		return "", ErrUnknownSlot
	}
	return id, nil
}

// IDs returns all registered slot ids in lexical order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered slots.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
