package session

import "errors"

// Session errors.
var (
	// ErrExhaustedRetries indicates the reconnect attempt cap was
	// reached. Terminal until the application re-enables auto-reconnect.
	ErrExhaustedRetries = errors.New("reconnect attempts exhausted")

	// ErrConnectTimeout indicates no connection within the timeout
	// window. Counts toward the attempt cap.
	ErrConnectTimeout = errors.New("connect timeout")

	// ErrSessionClosed indicates the session was torn down.
	ErrSessionClosed = errors.New("session closed")

	// ErrNoEndpoint indicates Start was called without an endpoint and
	// none is configured or discoverable.
	ErrNoEndpoint = errors.New("no endpoint configured")
)

// State is the connection state of a Session.
type State uint8

const (
	// StateDisconnected indicates no active connection.
	StateDisconnected State = iota

	// StateConnecting indicates a connection attempt is in progress.
	StateConnecting

	// StateConnected indicates an active connection.
	StateConnected
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}
