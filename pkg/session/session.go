package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playlink-protocol/playlink-go/pkg/clock"
	"github.com/playlink-protocol/playlink-go/pkg/event"
	"github.com/playlink-protocol/playlink-go/pkg/log"
	"github.com/playlink-protocol/playlink-go/pkg/transport"
	"github.com/playlink-protocol/playlink-go/pkg/wire"
)

// TransportFactory creates the transport for one connection attempt.
// Sessions create a fresh transport per attempt and always close the
// previous handle before replacing it.
type TransportFactory func() transport.Transport

// Session is the single logical connection to the game server.
//
// All mutable session state is guarded by one mutex; transport callbacks,
// timer firings, and application calls serialize through it, so no field
// is ever mutated concurrently.
type Session struct {
	cfg    Config
	bus    *event.Bus
	clock  *clock.Synchronizer
	outbox *outbox

	newTransport TransportFactory
	logger       *slog.Logger
	journal      log.Logger

	mu sync.Mutex

	state     State
	tr        transport.Transport
	sessionID string // assigned by the server on first handshake
	connID    string // journal correlation ID, one per transport
	endpoint  string // last endpoint dialed

	attempts      int
	autoReconnect bool
	closed        bool

	// generation invalidates callbacks from superseded transports.
	generation uint64

	hb             *heartbeat
	reconnectTimer *time.Timer
	lastInbound    time.Time
}

// New creates a session. The event bus and clock synchronizer it owns
// are reachable through Bus and Clock.
func New(cfg Config) *Session {
	cfg = cfg.withDefaults()

	return &Session{
		cfg:    cfg,
		bus:    event.NewBus(),
		clock:  clock.NewSynchronizer(),
		outbox: newOutbox(),
		newTransport: func() transport.Transport {
			return transport.NewWebSocket(transport.WebSocketConfig{})
		},
		journal:       log.NoopLogger{},
		autoReconnect: true,
	}
}

// SetLogger sets the application logger. Call before Start.
func (s *Session) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// SetJournal sets the protocol journal. Call before Start.
func (s *Session) SetJournal(journal log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if journal == nil {
		journal = log.NoopLogger{}
	}
	s.journal = journal
}

// SetTransportFactory overrides transport creation. For tests.
func (s *Session) SetTransportFactory(fn TransportFactory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newTransport = fn
}

// Bus returns the session's event bus.
func (s *Session) Bus() *event.Bus {
	return s.bus
}

// Clock returns the session's clock synchronizer.
func (s *Session) Clock() *clock.Synchronizer {
	return s.clock
}

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SessionID returns the server-assigned identifier, empty before the
// first successful handshake.
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Start opens a connection to the endpoint, or to the configured default
// when endpoint is empty. It blocks until the transport is open or the
// attempt fails, and returns ErrExhaustedRetries immediately once the
// attempt cap is reached (which also disables auto-reconnect).
func (s *Session) Start(ctx context.Context, endpoint string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.attempts >= s.cfg.MaxReconnectAttempts {
		s.autoReconnect = false
		s.mu.Unlock()
		return ErrExhaustedRetries
	}

	ep := endpoint
	if ep == "" {
		ep = s.endpoint
	}
	if ep == "" {
		ep = s.cfg.Endpoint
	}
	if ep == "" {
		s.mu.Unlock()
		return ErrNoEndpoint
	}
	s.endpoint = ep

	// Replace any existing transport; the invariant is at most one
	// active handle per session.
	old := s.tr
	if s.hb != nil {
		s.hb.stop()
		s.hb = nil
	}
	s.generation++
	gen := s.generation
	oldState := s.state
	s.state = StateConnecting
	tr := s.newTransport()
	s.tr = tr
	s.connID = uuid.NewString()
	connID := s.connID
	journal := s.journal
	s.mu.Unlock()

	if old != nil {
		// Close errors on an already-broken handle are irrelevant.
		_ = old.Close(transport.Status{Code: wire.CloseNormal, Reason: "superseded"})
	}

	journalState(journal, connID, oldState, StateConnecting, "start")

	tr.OnMessage(func(data []byte) { s.handleMessage(gen, data) })
	tr.OnClose(func(status transport.Status) { s.handleClose(gen, status) })
	tr.OnError(func(err error) { s.handleError(gen, err) })

	dialCtx, cancel := context.WithTimeout(ctx, s.cfg.ConnectTimeout)
	defer cancel()

	if err := tr.Open(dialCtx, ep); err != nil {
		return s.finishFailedStart(gen, ep, err)
	}
	return s.finishOpen(gen, tr)
}

// finishFailedStart accounts a failed attempt and normalizes the error.
func (s *Session) finishFailedStart(gen uint64, ep string, err error) error {
	s.mu.Lock()
	if s.generation == gen {
		s.state = StateDisconnected
		s.tr = nil
		s.attempts++
	}
	attempts := s.attempts
	autoReconnect := s.autoReconnect
	connID := s.connID
	logger := s.logger
	journal := s.journal
	s.mu.Unlock()

	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w dialing %s (attempt %d)", ErrConnectTimeout, ep, attempts)
	} else {
		err = fmt.Errorf("connect to %s failed (attempt %d): %w", ep, attempts, err)
	}

	journalError(journal, connID, "connect", err)
	if logger != nil {
		logger.Warn("connect attempt failed", "endpoint", ep, "attempt", attempts, "error", err)
	}
	journalState(journal, connID, StateConnecting, StateDisconnected, "connect failed")

	// A failed attempt takes the same retry path as a connection loss.
	if autoReconnect {
		s.scheduleReconnect()
	}
	return err
}

// finishOpen completes a successful attempt: transitions to connected,
// drains the outbox ahead of any new sends, and starts the heartbeat.
func (s *Session) finishOpen(gen uint64, tr transport.Transport) error {
	s.mu.Lock()
	if s.closed || s.generation != gen {
		s.mu.Unlock()
		_ = tr.Close(transport.Status{Code: wire.CloseNormal, Reason: "superseded"})
		return ErrSessionClosed
	}

	s.state = StateConnected
	s.attempts = 0
	connID := s.connID
	journal := s.journal
	logger := s.logger

	// Buffered envelopes flush in enqueue order before Send calls for
	// this cycle can interleave: Send blocks on the session mutex held
	// here until the drain completes.
	flushed := s.outbox.drain(func(env wire.Envelope) error {
		data, err := wire.Encode(env)
		if err != nil {
			// Undecodable envelopes cannot be constructed through
			// Send; skip rather than wedge the queue.
			return nil
		}
		journalMessage(journal, connID, log.DirectionOut, env.Type, len(data))
		return tr.Send(data)
	})

	hb := newHeartbeat(s.cfg.HeartbeatInterval,
		tr.Ready,
		func() { s.sendHeartbeat(gen, tr) },
		func() {
			s.handleClose(gen, transport.Status{
				Code:   wire.CloseAbnormal,
				Reason: "transport not ready at heartbeat",
			})
		})
	s.hb = hb
	s.mu.Unlock()

	hb.start()
	journalState(journal, connID, StateConnecting, StateConnected, "transport open")
	if logger != nil {
		logger.Info("connected", "endpoint", s.Endpoint(), "flushed", flushed)
	}
	_ = s.bus.Publish(event.Connect, nil)
	return nil
}

// Send constructs an envelope stamped with the current local time and
// forwards it if connected, or buffers it otherwise. Send never fails:
// delivery is best-effort once the outbound path accepts the message.
func (s *Session) Send(msgType string, payload any) {
	env, err := wire.NewEnvelope(msgType, payload)
	if err != nil {
		s.mu.Lock()
		logger := s.logger
		s.mu.Unlock()
		if logger != nil {
			logger.Error("dropping unencodable payload", "type", msgType, "error", err)
		}
		return
	}

	s.mu.Lock()
	if s.state != StateConnected || s.tr == nil || !s.tr.Ready() {
		s.outbox.enqueue(env)
		s.mu.Unlock()
		return
	}

	tr := s.tr
	gen := s.generation
	connID := s.connID
	journal := s.journal
	data, encErr := wire.Encode(env)
	if encErr != nil {
		s.mu.Unlock()
		return
	}

	// The mutex is held across the write so that envelopes reach the
	// transport in Send call order.
	sendErr := tr.Send(data)
	if sendErr != nil {
		// Broken but not yet detected: buffer the envelope and take
		// the same path as a close notification.
		s.outbox.enqueue(env)
	}
	s.mu.Unlock()

	if sendErr != nil {
		s.handleClose(gen, transport.Status{
			Code:   wire.CloseAbnormal,
			Reason: "send failed: " + sendErr.Error(),
		})
		return
	}
	journalMessage(journal, connID, log.DirectionOut, env.Type, len(data))
}

// Disconnect closes the connection with a normal closure. It never
// triggers auto-reconnect, and is a no-op when already disconnected.
func (s *Session) Disconnect() {
	s.mu.Lock()
	if s.reconnectTimer != nil {
		s.reconnectTimer.Stop()
		s.reconnectTimer = nil
	}
	if s.state == StateDisconnected && s.tr == nil {
		s.mu.Unlock()
		return
	}

	oldState := s.state
	s.state = StateDisconnected
	tr := s.tr
	s.tr = nil
	if s.hb != nil {
		s.hb.stop()
		s.hb = nil
	}
	s.generation++
	connID := s.connID
	journal := s.journal
	s.mu.Unlock()

	status := transport.Status{Code: wire.CloseNormal, Reason: "client disconnect"}
	if tr != nil {
		_ = tr.Close(status)
	}

	journalClose(journal, connID, log.DirectionLocal, status)
	journalState(journal, connID, oldState, StateDisconnected, "client disconnect")
	_ = s.bus.Publish(event.Disconnect, status)
}

// Close tears the session down for application shutdown. The session is
// unusable afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.Disconnect()
}

// EnableAutoReconnect re-arms automatic reconnection and resets the
// attempt counter.
func (s *Session) EnableAutoReconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoReconnect = true
	s.attempts = 0
}

// DisableAutoReconnect turns automatic reconnection off.
func (s *Session) DisableAutoReconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoReconnect = false
}

// Endpoint returns the endpoint of the current or most recent connection.
func (s *Session) Endpoint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoint
}

// Stats is a point-in-time snapshot of the session.
type Stats struct {
	State             State
	SessionID         string
	Endpoint          string
	ReconnectAttempts int
	AutoReconnect     bool
	QueueDepth        int
	ClockOffsetMillis int64
	RTT               time.Duration
	LastInbound       time.Time
}

// Stats returns a snapshot of the session's observable state.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		State:             s.state,
		SessionID:         s.sessionID,
		Endpoint:          s.endpoint,
		ReconnectAttempts: s.attempts,
		AutoReconnect:     s.autoReconnect,
		QueueDepth:        s.outbox.len(),
		ClockOffsetMillis: s.clock.Offset(),
		RTT:               s.clock.RTT(),
		LastInbound:       s.lastInbound,
	}
}

// sendHeartbeat emits one PING directly through the transport. Heartbeat
// probes bypass the outbox: a probe buffered for a future connection
// would be meaningless.
func (s *Session) sendHeartbeat(gen uint64, tr transport.Transport) {
	env, err := wire.NewEnvelope(wire.TypePing, wire.Ping{Timestamp: time.Now().UnixMilli()})
	if err != nil {
		return
	}
	data, err := wire.Encode(env)
	if err != nil {
		return
	}

	s.mu.Lock()
	if s.generation != gen || s.state != StateConnected {
		s.mu.Unlock()
		return
	}
	connID := s.connID
	journal := s.journal
	sendErr := tr.Send(data)
	s.mu.Unlock()

	if sendErr != nil {
		s.handleClose(gen, transport.Status{
			Code:   wire.CloseAbnormal,
			Reason: "heartbeat send failed: " + sendErr.Error(),
		})
		return
	}
	journalMessage(journal, connID, log.DirectionOut, wire.TypePing, len(data))
}

// handleMessage routes one inbound message: liveness replies to the
// clock synchronizer, everything else to the event bus.
func (s *Session) handleMessage(gen uint64, data []byte) {
	s.mu.Lock()
	if s.generation != gen || s.closed {
		s.mu.Unlock()
		return
	}
	s.lastInbound = time.Now()
	connID := s.connID
	logger := s.logger
	journal := s.journal
	s.mu.Unlock()

	env, err := wire.Decode(data)
	if err != nil {
		// Undecodable inbound messages are dropped, never fatal.
		journalError(journal, connID, "decode", err)
		if logger != nil {
			logger.Warn("dropping malformed message", "error", err)
		}
		return
	}
	journalMessage(journal, connID, log.DirectionIn, env.Type, len(data))

	switch env.Type {
	case wire.TypePong:
		var pong wire.Pong
		if err := wire.Bind(env, &pong); err == nil {
			s.clock.ProcessPong(pong.Timestamp, pong.ServerTime)
		}

	case wire.TypePlayerConnected:
		var pc wire.PlayerConnected
		if err := wire.Bind(env, &pc); err == nil && pc.ID != "" {
			s.mu.Lock()
			if s.sessionID == "" {
				s.sessionID = pc.ID
			}
			s.mu.Unlock()
		}
		_ = s.bus.Publish(event.PlayerConnected, env)

	case wire.TypePlayerDisconnected:
		_ = s.bus.Publish(event.PlayerDisconnected, env)

	case wire.TypeGameState, wire.TypeGameStateUpdate:
		_ = s.bus.Publish(event.GameStateUpdate, env)

	case wire.TypePlayerDamage:
		_ = s.bus.Publish(event.PlayerDamage, env)

	case wire.TypePlayerDeath:
		_ = s.bus.Publish(event.PlayerDeath, env)

	case wire.TypePlayerRespawn:
		_ = s.bus.Publish(event.PlayerRespawn, env)

	case wire.TypeProjectileSpawn:
		_ = s.bus.Publish(event.ProjectileSpawn, env)

	default:
		// Unknown tags are forward-compatible: accepted, logged, and
		// otherwise ignored.
		if logger != nil {
			logger.Debug("unrouted message", "type", env.Type)
		}
	}
}

// handleClose is the single exit path from the connected state for
// remote closures, send failures, and heartbeat readiness failures.
func (s *Session) handleClose(gen uint64, status transport.Status) {
	s.mu.Lock()
	if s.generation != gen || s.closed {
		s.mu.Unlock()
		return
	}
	if s.state == StateDisconnected && s.tr == nil {
		s.mu.Unlock()
		return
	}

	oldState := s.state
	s.state = StateDisconnected
	tr := s.tr
	s.tr = nil
	if s.hb != nil {
		s.hb.stop()
		s.hb = nil
	}
	// Invalidate any further callbacks from this transport.
	s.generation++
	autoReconnect := s.autoReconnect
	connID := s.connID
	journal := s.journal
	logger := s.logger
	s.mu.Unlock()

	if tr != nil {
		_ = tr.Close(status)
	}

	journalClose(journal, connID, log.DirectionIn, status)
	journalState(journal, connID, oldState, StateDisconnected, status.String())
	if logger != nil {
		logger.Info("disconnected",
			"code", status.Code,
			"reason", status.Reason,
			"explanation", wire.CloseCodeText(status.Code))
	}
	_ = s.bus.Publish(event.Disconnect, status)

	if autoReconnect && !status.Normal() {
		s.scheduleReconnect()
	}
}

// handleError surfaces a low-level transport failure. The close
// notification that follows it drives the actual state transition.
func (s *Session) handleError(gen uint64, err error) {
	s.mu.Lock()
	if s.generation != gen || s.closed {
		s.mu.Unlock()
		return
	}
	connID := s.connID
	logger := s.logger
	journal := s.journal
	s.mu.Unlock()

	journalError(journal, connID, "transport", err)
	if logger != nil {
		logger.Warn("transport error", "error", err)
	}
}

// scheduleReconnect arms the fixed-delay reconnect timer. No-op when
// auto-reconnect is off, the cap is reached, or a timer is pending.
func (s *Session) scheduleReconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.autoReconnect || s.attempts > s.cfg.MaxReconnectAttempts {
		return
	}
	if s.reconnectTimer != nil {
		return
	}
	s.reconnectTimer = time.AfterFunc(s.cfg.ReconnectDelay, s.reconnectFire)
}

// reconnectFire runs when the reconnect delay elapses. The still-
// disconnected and still-enabled checks happen here, at fire time.
func (s *Session) reconnectFire() {
	s.mu.Lock()
	s.reconnectTimer = nil
	if s.closed || !s.autoReconnect || s.state != StateDisconnected {
		s.mu.Unlock()
		return
	}
	ep := s.endpoint
	s.mu.Unlock()

	// A failed attempt schedules the next retry itself; exhaustion
	// rejects immediately and disables auto-reconnect.
	_ = s.Start(context.Background(), ep)
}

// journalState records a state transition in the protocol journal.
func journalState(journal log.Logger, connID string, oldState, newState State, reason string) {
	journal.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: connID,
		Direction: log.DirectionLocal,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: oldState.String(),
			NewState: newState.String(),
			Reason:   reason,
		},
	})
}

// journalMessage records one wire message in the protocol journal.
func journalMessage(journal log.Logger, connID string, dir log.Direction, msgType string, size int) {
	journal.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: connID,
		Direction: dir,
		Category:  log.CategoryMessage,
		Message: &log.MessageEvent{
			Type: msgType,
			Size: size,
		},
	})
}

// journalClose records a transport close status verbatim.
func journalClose(journal log.Logger, connID string, dir log.Direction, status transport.Status) {
	journal.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: connID,
		Direction: dir,
		Category:  log.CategoryClose,
		Close: &log.CloseEvent{
			Code:   status.Code,
			Reason: status.Reason,
		},
	})
}

// journalError records an error in the protocol journal.
func journalError(journal log.Logger, connID string, context string, err error) {
	journal.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: connID,
		Direction: log.DirectionLocal,
		Category:  log.CategoryError,
		Error: &log.ErrorEvent{
			Message: err.Error(),
			Context: context,
		},
	})
}
