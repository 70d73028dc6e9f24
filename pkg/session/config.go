package session

import "time"

// Default tunables.
const (
	// DefaultConnectTimeout bounds a single connection attempt.
	DefaultConnectTimeout = 5000 * time.Millisecond

	// DefaultHeartbeatInterval is the PING emission interval.
	DefaultHeartbeatInterval = 5000 * time.Millisecond

	// DefaultReconnectDelay is the fixed wait before a reconnect
	// attempt. There is no exponential backoff.
	DefaultReconnectDelay = 3000 * time.Millisecond

	// DefaultMaxReconnectAttempts caps automatic reconnection.
	DefaultMaxReconnectAttempts = 3
)

// Config configures a Session.
type Config struct {
	// Endpoint is the default server URL (ws:// or wss://), used when
	// Start is called without one.
	Endpoint string

	// ConnectTimeout bounds a single connection attempt
	// (default: 5000 ms).
	ConnectTimeout time.Duration

	// HeartbeatInterval is the PING emission interval while connected
	// (default: 5000 ms).
	HeartbeatInterval time.Duration

	// ReconnectDelay is the fixed delay before an automatic reconnect
	// (default: 3000 ms).
	ReconnectDelay time.Duration

	// MaxReconnectAttempts caps consecutive failed attempts
	// (default: 3).
	MaxReconnectAttempts int
}

// withDefaults fills zero fields with the default tunables.
func (c Config) withDefaults() Config {
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = DefaultReconnectDelay
	}
	if c.MaxReconnectAttempts == 0 {
		c.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	return c
}

// DefaultConfig returns a config with all default tunables.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}
