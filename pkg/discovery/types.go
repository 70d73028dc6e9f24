package discovery

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/playlink-protocol/playlink-go/pkg/version"
)

// Service constants for mDNS.
const (
	// ServiceType is the DNS-SD service type for Playlink game servers.
	ServiceType = "_playlink._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the default Playlink server port.
	DefaultPort = 8080

	// DefaultPath is the WebSocket endpoint path.
	DefaultPath = "/play"
)

// TXT record keys.
const (
	// TXTKeyName is the human-readable server name.
	TXTKeyName = "name"

	// TXTKeyMode is the game mode (e.g. "deathmatch").
	TXTKeyMode = "mode"

	// TXTKeyPlayers is the current player count.
	TXTKeyPlayers = "players"

	// TXTKeyMaxPlayers is the player capacity.
	TXTKeyMaxPlayers = "max"

	// TXTKeyVersion is the protocol version.
	TXTKeyVersion = "v"

	// TXTKeyPath is the WebSocket path, when not DefaultPath.
	TXTKeyPath = "path"
)

// BrowseTimeout is the default timeout for mDNS browsing.
const BrowseTimeout = 10 * time.Second

// Discovery errors.
var (
	ErrNotFound         = errors.New("no game server found")
	ErrInvalidTXTRecord = errors.New("invalid TXT record format")
	ErrMissingRequired  = errors.New("missing required field")
)

// GameServer describes a game server found via mDNS.
type GameServer struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Host is the hostname (e.g. "arena.local").
	Host string

	// Port is the service port.
	Port int

	// Addresses contains resolved IP addresses.
	Addresses []string

	// Name is the human-readable server name (from TXT "name").
	Name string

	// Mode is the game mode (from TXT "mode").
	Mode string

	// Players is the current player count (from TXT "players").
	Players int

	// MaxPlayers is the player capacity (from TXT "max").
	MaxPlayers int

	// Version is the protocol version (from TXT "v").
	Version string

	// Path is the WebSocket path (from TXT "path", default "/play").
	Path string
}

// Endpoint returns the ws:// URL for connecting to the server. Prefers
// a resolved address over the hostname; IPv6 addresses are bracketed.
func (s *GameServer) Endpoint() string {
	host := s.Host
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	if ip := net.ParseIP(host); ip != nil && ip.To4() == nil {
		host = "[" + host + "]"
	}

	port := s.Port
	if port == 0 {
		port = DefaultPort
	}
	path := s.Path
	if path == "" {
		path = DefaultPath
	}

	return fmt.Sprintf("ws://%s:%d%s", host, port, path)
}

// Full reports whether the server is at player capacity.
func (s *GameServer) Full() bool {
	return s.MaxPlayers > 0 && s.Players >= s.MaxPlayers
}

// Joinable reports whether this client can join: the server has room
// and speaks a compatible protocol version.
func (s *GameServer) Joinable() bool {
	return !s.Full() && version.CompatibleWith(s.Version)
}

// GameInfo contains information for advertising a game server.
type GameInfo struct {
	// Name is the human-readable server name.
	Name string

	// Mode is the game mode.
	Mode string

	// Players is the current player count.
	Players int

	// MaxPlayers is the player capacity.
	MaxPlayers int

	// Version is the protocol version.
	Version string

	// Path is the WebSocket path, when not DefaultPath.
	Path string

	// Port is the service port.
	Port int
}
