package discovery

import (
	"context"
	"net"

	"github.com/enbility/zeroconf/v3"
)

// BrowserConfig configures an mDNS browser.
type BrowserConfig struct {
	// Interface restricts browsing to a named network interface.
	// Empty means all interfaces.
	Interface string
}

// Browser finds game servers via mDNS.
type Browser struct {
	config BrowserConfig
}

// NewBrowser creates a new mDNS browser.
func NewBrowser(config BrowserConfig) *Browser {
	return &Browser{config: config}
}

// Browse searches for game servers until the context is cancelled.
// Results are aggregated by instance name: addresses from multiple
// interfaces are merged into a single entry, and each server is
// emitted once.
func (b *Browser) Browse(ctx context.Context) (<-chan *GameServer, error) {
	out := make(chan *GameServer)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := b.browserOptions()

	go func() {
		defer close(out)

		// Track servers by instance name, aggregating addresses.
		servers := make(map[string]*GameServer)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				server := entryToGameServer(entry)
				if server == nil {
					continue
				}

				existing, found := servers[server.InstanceName]
				if found {
					existing.Addresses = mergeAddresses(existing.Addresses, server.Addresses)
				} else {
					servers[server.InstanceName] = server
					select {
					case out <- server:
					case <-ctx.Done():
						return
					}
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				if existing, found := servers[entry.Instance]; found {
					existing.Addresses = removeAddresses(existing.Addresses, entry)
					if len(existing.Addresses) == 0 {
						delete(servers, entry.Instance)
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// FindFirst returns the first joinable game server that appears,
// skipping full and version-incompatible servers. Blocks until one is
// found or the context expires.
func (b *Browser) FindFirst(ctx context.Context) (*GameServer, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	for {
		select {
		case server, ok := <-results:
			if !ok {
				return nil, ErrNotFound
			}
			if !server.Joinable() {
				continue
			}
			return server, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// browserOptions returns zeroconf client options based on config.
func (b *Browser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToGameServer converts a zeroconf entry to a GameServer. Entries
// with unparseable TXT records are skipped.
func entryToGameServer(entry *zeroconf.ServiceEntry) *GameServer {
	info, err := DecodeTXT(entry.Text)
	if err != nil {
		return nil
	}

	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &GameServer{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         entry.Port,
		Addresses:    addrs,
		Name:         info.Name,
		Mode:         info.Mode,
		Players:      info.Players,
		MaxPlayers:   info.MaxPlayers,
		Version:      info.Version,
		Path:         info.Path,
	}
}

// mergeAddresses adds new addresses to the existing list, avoiding
// duplicates.
func mergeAddresses(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range incoming {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses removes the entry's addresses from the list.
func removeAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	toRemove := make(map[string]bool)
	for _, ip := range entry.AddrIPv4 {
		toRemove[ip.String()] = true
	}
	for _, ip := range entry.AddrIPv6 {
		toRemove[ip.String()] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}
