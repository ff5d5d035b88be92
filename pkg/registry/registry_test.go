package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSlot is a stand-in for a UI component handle.
type testSlot struct {
	kind string
}

func TestRegister(t *testing.T) {
	t.Run("stores composed ids", func(t *testing.T) {
		r := New()
		chat := &testSlot{kind: "chatbot"}
		run := &testSlot{kind: "button"}

		err := r.Register("research", map[string]Slot{
			"chatbot":    chat,
			"run_button": run,
		})
		require.NoError(t, err)

		got, ok := r.Resolve("research.chatbot")
		require.True(t, ok)
		assert.Same(t, chat, got)

		got, ok = r.Resolve("research.run_button")
		require.True(t, ok)
		assert.Same(t, run, got)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Register("research", map[string]Slot{
			"chatbot": &testSlot{},
		}))

		err := r.Register("research", map[string]Slot{
			"chatbot": &testSlot{},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateSlot))
	})

	t.Run("duplicate batch leaves registry untouched", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Register("research", map[string]Slot{
			"chatbot": &testSlot{},
		}))

		fresh := &testSlot{}
		err := r.Register("research", map[string]Slot{
			"browser_view": fresh,
			"chatbot":      &testSlot{},
		})
		require.Error(t, err)

		// Nothing from the failing batch may be visible.
		_, ok := r.Resolve("research.browser_view")
		assert.False(t, ok)
		_, revErr := r.Reverse(fresh)
		assert.True(t, errors.Is(revErr, ErrUnknownSlot))
	})
}

func TestResolveAbsent(t *testing.T) {
	r := New()
	slot, ok := r.Resolve("settings.model")
	assert.False(t, ok)
	assert.Nil(t, slot)
}

func TestReverse(t *testing.T) {
	r := New()
	chat := &testSlot{kind: "chatbot"}
	require.NoError(t, r.Register("research", map[string]Slot{"chatbot": chat}))

	id, err := r.Reverse(chat)
	require.NoError(t, err)
	assert.Equal(t, "research.chatbot", id)

	_, err = r.Reverse(&testSlot{})
	assert.True(t, errors.Is(err, ErrUnknownSlot))
}

// Inverse law: resolve(reverse(h)) == h and reverse(resolve(id)) == id for
// every registered pair.
func TestInverseLaw(t *testing.T) {
	r := New()
	fields := map[string]Slot{
		"chatbot":     &testSlot{kind: "chatbot"},
		"run_button":  &testSlot{kind: "button"},
		"stop_button": &testSlot{kind: "button"},
		"report":      &testSlot{kind: "html"},
	}
	require.NoError(t, r.Register("research", fields))

	for _, id := range r.IDs() {
		slot, ok := r.Resolve(id)
		require.True(t, ok, "id %s must resolve", id)

		back, err := r.Reverse(slot)
		require.NoError(t, err)
		assert.Equal(t, id, back)
	}
	assert.Equal(t, len(fields), r.Len())
}

func TestIDsSorted(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("b_tab", map[string]Slot{"x": &testSlot{}}))
	require.NoError(t, r.Register("a_tab", map[string]Slot{"y": &testSlot{}}))

	assert.Equal(t, []string{"a_tab.y", "b_tab.x"}, r.IDs())
}

func TestRegisterRejectsSharedHandle(t *testing.T) {
	t.Run("within one call", func(t *testing.T) {
		r := New()
		shared := &testSlot{}

		err := r.Register("research", map[string]Slot{
			"report":  shared,
			"chatbot": shared,
		})
		require.ErrorIs(t, err, ErrDuplicateHandle)
		assert.Zero(t, r.Len(), "failed registration must keep nothing")
	})

	t.Run("across calls", func(t *testing.T) {
		r := New()
		shared := &testSlot{}
		require.NoError(t, r.Register("research", map[string]Slot{"report": shared}))

		err := r.Register("settings", map[string]Slot{"model": shared})
		require.ErrorIs(t, err, ErrDuplicateHandle)

		// The original binding still satisfies the inverse law.
		id, rerr := r.Reverse(shared)
		require.NoError(t, rerr)
		assert.Equal(t, "research.report", id)
		assert.Equal(t, 1, r.Len())
	})
}
