// Package session implements the connection controller for a Playlink
// client: the state machine that owns the transport handle, sequences
// connect/retry/timeout/close transitions, and coordinates the outbound
// queue, heartbeat monitor, clock synchronizer, and event bus.
//
// A Session is created once per process. The application starts it with
// Start, sends messages with Send (which never fails; messages issued
// while disconnected are buffered and flushed in order on the next
// connect), and observes it exclusively through the event bus.
//
// Reconnection is a fixed-delay policy with a bounded attempt cap.
// Connect timeouts and transport errors both count toward the cap;
// exhaustion is terminal until the application re-enables auto-reconnect,
// which resets the counter.
package session
