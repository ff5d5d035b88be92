package webui

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/scout/pkg/orchestrator"
	"github.com/entrhq/scout/pkg/types"
)

func TestEncodeSnapshot(t *testing.T) {
	fragment := types.NewUpdate().
		Set("research.report", types.SetValue("<div>r</div>")).
		Set("research.run-button", types.SetInteractive(false))

	payload, err := encodeSnapshot(fragment)
	require.NoError(t, err)

	var msg wireSnapshot
	require.NoError(t, json.Unmarshal(payload, &msg))

	assert.Equal(t, "snapshot", msg.Type)
	assert.Equal(t, "<div>r</div>", msg.Slots["research.report"].Value)
	assert.True(t, msg.Slots["research.report"].HasValue)

	run := msg.Slots["research.run-button"]
	assert.False(t, run.HasValue)
	require.NotNil(t, run.Interactive)
	assert.False(t, *run.Interactive)
}

func TestStreamReceivesBroadcast(t *testing.T) {
	s, _ := newTestServer(t)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The replayed state arrives first.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, first, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(first), "snapshot")

	s.hub.Broadcast(types.NewUpdate().Set(orchestrator.SlotReport, types.SetValue("<div>live</div>")))

	_, second, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(second), "live")
}

func TestHubRemoveOnClose(t *testing.T) {
	s, _ := newTestServer(t)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return s.hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return s.hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
