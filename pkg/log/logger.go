package log

// Logger is the interface applications implement to receive protocol
// events. Pass NoopLogger to disable capture.
type Logger interface {
	// Log records a protocol event. Implementations must be
	// thread-safe and must not block the session.
	Log(event Event)
}

// NoopLogger discards all events. Usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
