// Package config loads client configuration from YAML files. Durations
// are expressed as millisecond integers so config files match the
// protocol's tunable units.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/playlink-protocol/playlink-go/pkg/session"
)

// Config is the on-disk client configuration.
type Config struct {
	// Endpoint is the server URL (ws:// or wss://).
	Endpoint string `yaml:"endpoint"`

	// ConnectTimeoutMs bounds a single connection attempt.
	ConnectTimeoutMs int `yaml:"connectTimeoutMs"`

	// HeartbeatIntervalMs is the PING emission interval.
	HeartbeatIntervalMs int `yaml:"heartbeatIntervalMs"`

	// ReconnectDelayMs is the fixed delay before a reconnect attempt.
	ReconnectDelayMs int `yaml:"reconnectDelayMs"`

	// MaxReconnectAttempts caps consecutive failed attempts.
	MaxReconnectAttempts int `yaml:"maxReconnectAttempts"`

	// JournalPath enables protocol journaling to the given file when
	// non-empty.
	JournalPath string `yaml:"journalPath"`

	// Discover enables mDNS server discovery when no endpoint is
	// configured.
	Discover bool `yaml:"discover"`
}

// Default returns a configuration with the standard tunables and no
// endpoint.
func Default() Config {
	return Config{
		ConnectTimeoutMs:     int(session.DefaultConnectTimeout / time.Millisecond),
		HeartbeatIntervalMs:  int(session.DefaultHeartbeatInterval / time.Millisecond),
		ReconnectDelayMs:     int(session.DefaultReconnectDelay / time.Millisecond),
		MaxReconnectAttempts: session.DefaultMaxReconnectAttempts,
	}
}

// Load reads a YAML configuration file. Fields absent from the file
// keep their Default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects nonsensical tunables.
func (c Config) Validate() error {
	if c.ConnectTimeoutMs < 0 {
		return fmt.Errorf("connectTimeoutMs must not be negative, got %d", c.ConnectTimeoutMs)
	}
	if c.HeartbeatIntervalMs < 0 {
		return fmt.Errorf("heartbeatIntervalMs must not be negative, got %d", c.HeartbeatIntervalMs)
	}
	if c.ReconnectDelayMs < 0 {
		return fmt.Errorf("reconnectDelayMs must not be negative, got %d", c.ReconnectDelayMs)
	}
	if c.MaxReconnectAttempts < 0 {
		return fmt.Errorf("maxReconnectAttempts must not be negative, got %d", c.MaxReconnectAttempts)
	}
	return nil
}

// Session converts the file configuration into session tunables.
func (c Config) Session() session.Config {
	return session.Config{
		Endpoint:             c.Endpoint,
		ConnectTimeout:       time.Duration(c.ConnectTimeoutMs) * time.Millisecond,
		HeartbeatInterval:    time.Duration(c.HeartbeatIntervalMs) * time.Millisecond,
		ReconnectDelay:       time.Duration(c.ReconnectDelayMs) * time.Millisecond,
		MaxReconnectAttempts: c.MaxReconnectAttempts,
	}
}
