package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := tempStorePath(t)

	store, err := NewFileStore(path)
	require.NoError(t, err)

	store.Set("agent-settings.model", "gpt-4o")
	store.Set("browser-settings.headless", true)
	store.Set("browser-settings.max-steps", float64(25))
	require.NoError(t, store.Save())

	// Fresh store reads the same values back.
	reloaded, err := NewFileStore(path)
	require.NoError(t, err)

	value, ok := reloaded.Get("agent-settings.model")
	require.True(t, ok)
	assert.Equal(t, "gpt-4o", value)

	value, ok = reloaded.Get("browser-settings.headless")
	require.True(t, ok)
	assert.Equal(t, true, value)

	value, ok = reloaded.Get("browser-settings.max-steps")
	require.True(t, ok)
	assert.Equal(t, float64(25), value)
}

func TestFileStoreMissingFile(t *testing.T) {
	store, err := NewFileStore(tempStorePath(t))
	require.NoError(t, err)

	_, ok := store.Get("anything")
	assert.False(t, ok)
	assert.Empty(t, store.Values())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := tempStorePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStoreValuesCopy(t *testing.T) {
	store, err := NewFileStore(tempStorePath(t))
	require.NoError(t, err)

	store.Set("a.b", "x")
	values := store.Values()
	values["a.b"] = "mutated"

	got, _ := store.Get("a.b")
	assert.Equal(t, "x", got)
}

func TestFileStoreReplace(t *testing.T) {
	store, err := NewFileStore(tempStorePath(t))
	require.NoError(t, err)
	store.Set("stale.slot", 1)

	store.Replace(map[string]interface{}{"fresh.slot": "v"})

	_, ok := store.Get("stale.slot")
	assert.False(t, ok)
	got, ok := store.Get("fresh.slot")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestFileStoreModifiedFlag(t *testing.T) {
	store, err := NewFileStore(tempStorePath(t))
	require.NoError(t, err)
	assert.False(t, store.IsModified())

	store.Set("a.b", 1)
	assert.True(t, store.IsModified())

	require.NoError(t, store.Save())
	assert.False(t, store.IsModified())
}

func TestFileStoreAtomicSaveLeavesNoTemp(t *testing.T) {
	path := tempStorePath(t)
	store, err := NewFileStore(path)
	require.NoError(t, err)

	store.Set("a.b", 1)
	require.NoError(t, store.Save())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
