package webui

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/entrhq/scout/pkg/logging"
	"github.com/entrhq/scout/pkg/types"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 64
)

// wireInstruction is the JSON shape of one slot instruction on the stream.
type wireInstruction struct {
	Value       interface{} `json:"value,omitempty"`
	HasValue    bool        `json:"has_value"`
	Visible     *bool       `json:"visible,omitempty"`
	Interactive *bool       `json:"interactive,omitempty"`
}

// wireSnapshot is one pushed snapshot message.
type wireSnapshot struct {
	Type  string                     `json:"type"`
	Slots map[string]wireInstruction `json:"slots"`
}

// Hub fans snapshot fragments out to every connected stream. It is the
// orchestrator's sink; a slow or dead connection drops messages rather than
// stalling the pipeline.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*streamConn
	log   *logging.Logger
}

type streamConn struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	log, _ := logging.NewLogger("webui-hub")
	return &Hub{
		conns: make(map[string]*streamConn),
		log:   log,
	}
}

// Broadcast encodes a snapshot fragment and queues it on every connection.
func (h *Hub) Broadcast(fragment types.Update) {
	payload, err := encodeSnapshot(fragment)
	if err != nil {
		h.log.Errorf("snapshot encode failed: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sc := range h.conns {
		sc.enqueue(payload, h)
	}
}

// SendTo queues a fragment on one connection only.
func (h *Hub) SendTo(id string, fragment types.Update) {
	if len(fragment) == 0 {
		return
	}
	payload, err := encodeSnapshot(fragment)
	if err != nil {
		h.log.Errorf("snapshot encode failed: %v", err)
		return
	}

	h.mu.RLock()
	sc, ok := h.conns[id]
	h.mu.RUnlock()
	if ok {
		sc.enqueue(payload, h)
	}
}

// Add registers a connection and starts its writer. It returns the
// connection id.
func (h *Hub) Add(conn *websocket.Conn) string {
	sc := &streamConn{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.conns[sc.id] = sc
	h.mu.Unlock()

	go sc.writePump(h)
	go sc.readPump(h)
	return sc.id
}

// Remove drops a connection and closes its socket.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	sc, ok := h.conns[id]
	if ok {
		delete(h.conns, id)
	}
	h.mu.Unlock()

	if ok {
		sc.close()
	}
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// CloseAll closes every connection, used at shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[string]*streamConn)
	h.mu.Unlock()

	for _, sc := range conns {
		sc.close()
	}
}

func encodeSnapshot(fragment types.Update) ([]byte, error) {
	msg := wireSnapshot{
		Type:  "snapshot",
		Slots: make(map[string]wireInstruction, len(fragment)),
	}
	for id, in := range fragment {
		msg.Slots[id] = wireInstruction{
			Value:       in.Value,
			HasValue:    in.HasValue,
			Visible:     in.Visible,
			Interactive: in.Interactive,
		}
	}
	return json.Marshal(msg)
}

// enqueue tries to queue a payload without blocking; a full buffer means
// the client is too slow and the message is dropped.
func (sc *streamConn) enqueue(payload []byte, h *Hub) {
	select {
	case sc.send <- payload:
	default:
		h.log.Warnf("stream %s: send buffer full, dropping snapshot", sc.id)
	}
}

func (sc *streamConn) close() {
	sc.once.Do(func() {
		close(sc.done)
		sc.conn.Close()
	})
}

// writePump is the single writer for one socket.
func (sc *streamConn) writePump(h *Hub) {
	defer h.Remove(sc.id)

	for {
		select {
		case <-sc.done:
			return
		case payload := <-sc.send:
			sc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sc.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.log.Debugf("stream %s: write failed: %v", sc.id, err)
				return
			}
		}
	}
}

// readPump discards client frames and detects disconnects.
func (sc *streamConn) readPump(h *Hub) {
	defer h.Remove(sc.id)

	for {
		if _, _, err := sc.conn.ReadMessage(); err != nil {
			return
		}
	}
}
