package logging

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redirect the log directory into a temp dir so tests never touch ~/.scout.
func setupTestLogDir(t *testing.T) {
	t.Helper()

	dir, err := os.MkdirTemp("", "scout-logging-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	initOnce = sync.Once{}
	initErr = nil
	prev := logDir
	initOnce.Do(func() { logDir = dir })
	t.Cleanup(func() {
		initOnce = sync.Once{}
		initErr = nil
		logDir = prev
	})
}

func readLog(t *testing.T, l *Logger) string {
	t.Helper()
	data, err := os.ReadFile(l.LogPath())
	require.NoError(t, err)
	return string(data)
}

func TestNewLoggerCreatesSessionFile(t *testing.T) {
	setupTestLogDir(t)

	l, err := NewLogger("orchestrator")
	require.NoError(t, err)
	defer l.Close()

	assert.NotEmpty(t, l.SessionID())
	assert.Contains(t, l.LogPath(), l.SessionID())
	assert.True(t, strings.HasSuffix(l.LogPath(), "-scout.log"))

	_, err = os.Stat(l.LogPath())
	assert.NoError(t, err)
}

func TestLoggerLevels(t *testing.T) {
	setupTestLogDir(t)

	l, err := NewLogger("engine")
	require.NoError(t, err)
	defer l.Close()

	l.Debugf("step %d", 3)
	l.Infof("navigated to %s", "https://example.com")
	l.Warnf("queue full")
	l.Errorf("parse failed: %v", "bad json")
	l.Printf("legacy entry")

	out := readLog(t, l)
	assert.Contains(t, out, "[DEBUG] step 3")
	assert.Contains(t, out, "[INFO] navigated to https://example.com")
	assert.Contains(t, out, "[WARN] queue full")
	assert.Contains(t, out, "[ERROR] parse failed: bad json")
	// Printf is an info-level alias.
	assert.Contains(t, out, "[INFO] legacy entry")
	assert.Contains(t, out, "[engine]")
}

func TestLoggersShareOneSessionFile(t *testing.T) {
	setupTestLogDir(t)

	a, err := NewLogger("orchestrator")
	require.NoError(t, err)
	defer a.Close()

	b, err := NewLogger("webui")
	require.NoError(t, err)
	defer b.Close()

	require.Equal(t, a.LogPath(), b.LogPath())

	a.Infof("from orchestrator")
	b.Infof("from webui")

	out := readLog(t, a)
	assert.Contains(t, out, "[orchestrator] [INFO] from orchestrator")
	assert.Contains(t, out, "[webui] [INFO] from webui")
}

func TestConcurrentWrites(t *testing.T) {
	setupTestLogDir(t)

	l, err := NewLogger("poll")
	require.NoError(t, err)
	defer l.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				l.Infof("worker %d entry %d", n, j)
			}
		}(i)
	}
	wg.Wait()

	out := readLog(t, l)
	assert.Equal(t, 200, strings.Count(out, "[INFO] worker"))
}

func TestCloseIsIdempotent(t *testing.T) {
	setupTestLogDir(t)

	l, err := NewLogger("shutdown")
	require.NoError(t, err)

	assert.NoError(t, l.Close())
	assert.NoError(t, l.Close())
}

func TestWriterFallsBackToStderr(t *testing.T) {
	l := newFallbackLogger("broken", os.ErrPermission)
	assert.Equal(t, os.Stderr, l.Writer())
	assert.Empty(t, l.LogPath())
	assert.NotEmpty(t, l.SessionID())
}
