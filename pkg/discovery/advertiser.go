package discovery

import (
	"fmt"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// AdvertiserConfig configures an mDNS advertiser.
type AdvertiserConfig struct {
	// Interface restricts advertising to a named network interface.
	// Empty means all interfaces.
	Interface string
}

// Advertiser announces a game server via mDNS. Used by local server
// hosts so that clients on the same network can find them without
// configuration.
type Advertiser struct {
	config AdvertiserConfig

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewAdvertiser creates a new mDNS advertiser.
func NewAdvertiser(config AdvertiserConfig) *Advertiser {
	return &Advertiser{config: config}
}

// Announce starts (or replaces) the game server advertisement.
func (a *Advertiser) Announce(info *GameInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	port := info.Port
	if port == 0 {
		port = DefaultPort
	}

	server, err := zeroconf.Register(
		info.Name,
		ServiceType,
		Domain,
		port,
		EncodeTXT(info),
		a.interfaces(),
	)
	if err != nil {
		return fmt.Errorf("failed to register game server: %w", err)
	}

	a.server = server
	return nil
}

// Update refreshes the TXT records of a running advertisement, e.g.
// when the player count changes.
func (a *Advertiser) Update(info *GameInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return ErrNotFound
	}

	a.server.SetText(EncodeTXT(info))
	return nil
}

// Stop withdraws the advertisement.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// interfaces returns the network interfaces to advertise on. Nil means
// all interfaces.
func (a *Advertiser) interfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}
