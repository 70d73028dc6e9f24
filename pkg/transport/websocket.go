package transport

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/playlink-protocol/playlink-go/pkg/wire"
)

// DefaultWriteTimeout bounds a single write to the peer.
const DefaultWriteTimeout = 10 * time.Second

// WebSocketConfig configures a WebSocket transport.
type WebSocketConfig struct {
	// WriteTimeout bounds each write (default: DefaultWriteTimeout).
	WriteTimeout time.Duration

	// Logger receives transport-level debug logging. Optional.
	Logger *slog.Logger
}

// WebSocket is a Transport over a WebSocket connection.
type WebSocket struct {
	config WebSocketConfig
	dialer *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool

	onMessage func([]byte)
	onClose   func(Status)
	onError   func(error)
}

// NewWebSocket creates an unopened WebSocket transport.
func NewWebSocket(config WebSocketConfig) *WebSocket {
	if config.WriteTimeout == 0 {
		config.WriteTimeout = DefaultWriteTimeout
	}

	return &WebSocket{
		config: config,
		dialer: &websocket.Dialer{
			Proxy: websocket.DefaultDialer.Proxy,
		},
	}
}

// OnMessage sets the inbound message callback.
func (t *WebSocket) OnMessage(fn func([]byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMessage = fn
}

// OnClose sets the close notification callback.
func (t *WebSocket) OnClose(fn func(Status)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClose = fn
}

// OnError sets the low-level failure callback.
func (t *WebSocket) OnError(fn func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onError = fn
}

// Open dials the endpoint (a ws:// or wss:// URL) and starts the reader.
// The connect timeout is the caller's context deadline.
func (t *WebSocket) Open(ctx context.Context, endpoint string) error {
	t.mu.Lock()
	if t.conn != nil || t.closed {
		t.mu.Unlock()
		return ErrAlreadyOpen
	}
	t.mu.Unlock()

	conn, resp, err := t.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	t.mu.Lock()
	if t.closed {
		// Closed while dialing; discard the fresh connection.
		t.mu.Unlock()
		conn.Close()
		return ErrNotOpen
	}
	t.conn = conn
	t.mu.Unlock()

	go t.readLoop(conn)
	return nil
}

// Send writes one text message to the peer.
func (t *WebSocket) Send(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil || t.closed {
		return ErrNotOpen
	}

	if err := t.conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout)); err != nil {
		return err
	}
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

// Close sends a close frame with the given status and tears the
// connection down. Idempotent; close errors on an already-broken handle
// are ignored.
func (t *WebSocket) Close(status Status) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	conn := t.conn
	onClose := t.onClose
	t.mu.Unlock()

	if conn != nil {
		frame := websocket.FormatCloseMessage(status.Code, status.Reason)
		_ = conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
		_ = conn.WriteMessage(websocket.CloseMessage, frame)
		_ = conn.Close()
	}

	if onClose != nil {
		onClose(status)
	}
	return nil
}

// Ready reports whether the transport currently accepts writes.
func (t *WebSocket) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil && !t.closed
}

// readLoop pumps inbound messages until the connection breaks.
func (t *WebSocket) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.handleReadError(err)
			return
		}

		t.mu.Lock()
		onMessage := t.onMessage
		closed := t.closed
		t.mu.Unlock()

		if closed {
			return
		}
		if onMessage != nil {
			onMessage(data)
		}
	}
}

// handleReadError converts a reader failure into close/error
// notifications, exactly once per connection.
func (t *WebSocket) handleReadError(err error) {
	t.mu.Lock()
	if t.closed {
		// Local Close already notified.
		t.mu.Unlock()
		return
	}
	t.closed = true
	conn := t.conn
	onClose := t.onClose
	onError := t.onError
	logger := t.config.Logger
	t.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}

	status := closeStatus(err)
	if logger != nil {
		logger.Debug("transport closed",
			"code", status.Code,
			"reason", status.Reason,
			"explanation", wire.CloseCodeText(status.Code))
	}

	// Only a clean peer close (1000/1001) is error-free; abnormal drops
	// and transport failures surface the underlying error first. Note
	// that an abrupt peer disconnect reads as a 1006 CloseError, not a
	// plain network error.
	if onError != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		onError(err)
	}
	if onClose != nil {
		onClose(status)
	}
}

// closeStatus extracts the peer's close status from a read error.
// Non-close errors (resets, timeouts) map to 1006 abnormal closure.
func closeStatus(err error) Status {
	if ce, ok := err.(*websocket.CloseError); ok {
		return Status{Code: ce.Code, Reason: ce.Text}
	}
	return Status{Code: wire.CloseAbnormal, Reason: err.Error()}
}
