// Package log captures protocol events for diagnostics: wire messages in
// both directions, connection state transitions, and errors.
//
// Events are compact CBOR records with integer keys, suitable for
// always-on capture to a file (FileLogger) and later inspection with a
// Reader. SlogAdapter mirrors events to a standard slog logger for
// development. Logging never disrupts the session: implementations drop
// events on failure rather than surface errors.
package log
