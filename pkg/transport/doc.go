// Package transport abstracts the full-duplex, message-oriented
// connection to the game server.
//
// A Transport is a pure capability: open, send, close, plus inbound
// message/close/error notifications delivered through callback setters.
// All connection state tracking (connecting flags, attempt counters,
// timers) lives in the session layer, never on the transport handle.
//
// Transports are single-use: one Open per instance. The session creates
// a fresh transport for every connection attempt and always closes the
// previous handle before replacing it.
package transport
