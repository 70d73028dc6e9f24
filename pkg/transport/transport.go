package transport

import (
	"context"
	"errors"

	"github.com/playlink-protocol/playlink-go/pkg/wire"
)

// Transport errors.
var (
	ErrNotOpen     = errors.New("transport not open")
	ErrAlreadyOpen = errors.New("transport already opened")
)

// Status is a close status surfaced verbatim from the transport.
type Status struct {
	// Code is the numeric close code (1000 normal, 1006 abnormal, ...).
	Code int

	// Reason is the close reason string, possibly empty.
	Reason string
}

// Normal reports whether the status is a normal, application-initiated
// closure. Normal closures never trigger auto-reconnect.
func (s Status) Normal() bool {
	return s.Code == wire.CloseNormal
}

// String returns the status with its human-readable explanation.
func (s Status) String() string {
	if s.Reason != "" {
		return wire.CloseCodeText(s.Code) + ": " + s.Reason
	}
	return wire.CloseCodeText(s.Code)
}

// Transport is a single-use, full-duplex, message-oriented connection.
//
// Callback setters must be called before Open. Callbacks are invoked
// from the transport's reader goroutine, never concurrently with each
// other; the close notification fires at most once, whether the closure
// was local or remote.
type Transport interface {
	// Open establishes the connection to the endpoint. It blocks until
	// the connection is established or ctx is done.
	Open(ctx context.Context, endpoint string) error

	// Send writes one message. It fails with ErrNotOpen once the
	// transport is closed or broken.
	Send(data []byte) error

	// Close closes the connection with the given status. Idempotent;
	// closing an already-broken handle returns nil.
	Close(status Status) error

	// Ready reports whether the transport currently accepts writes.
	Ready() bool

	// OnMessage sets the inbound message callback.
	OnMessage(fn func(data []byte))

	// OnClose sets the close notification callback.
	OnClose(fn func(status Status))

	// OnError sets the low-level failure callback. It fires before the
	// close notification for abnormal closures.
	OnError(fn func(err error))
}

// Compile-time interface satisfaction check.
var _ Transport = (*WebSocket)(nil)
