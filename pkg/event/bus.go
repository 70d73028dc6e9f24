package event

import (
	"errors"
	"sync"
)

// ErrUnknownEvent indicates a subscribe or publish against an event name
// outside the fixed set. This is a caller bug and is rejected
// synchronously.
var ErrUnknownEvent = errors.New("unknown event")

// Name identifies an event on the bus.
type Name string

// The fixed event set.
const (
	// Connect fires when the session reaches the connected state.
	Connect Name = "connect"

	// Disconnect fires when the connection is lost or closed. The data
	// is a wire close Status carrying the verbatim code and reason.
	Disconnect Name = "disconnect"

	// PlayerConnected fires when the server acknowledges a player.
	PlayerConnected Name = "playerConnected"

	// PlayerDisconnected fires when a remote player leaves.
	PlayerDisconnected Name = "playerDisconnected"

	// GameStateUpdate fires on authoritative world snapshots.
	GameStateUpdate Name = "gameStateUpdate"

	// PlayerDamage fires on combat damage events.
	PlayerDamage Name = "playerDamage"

	// PlayerDeath fires when a player dies.
	PlayerDeath Name = "playerDeath"

	// PlayerRespawn fires when a player respawns.
	PlayerRespawn Name = "playerRespawn"

	// ProjectileSpawn fires when a projectile enters the world.
	ProjectileSpawn Name = "projectileSpawn"
)

// names is the registry of valid event names.
var names = map[Name]struct{}{
	Connect:            {},
	Disconnect:         {},
	PlayerConnected:    {},
	PlayerDisconnected: {},
	GameStateUpdate:    {},
	PlayerDamage:       {},
	PlayerDeath:        {},
	PlayerRespawn:      {},
	ProjectileSpawn:    {},
}

// Known reports whether name is in the fixed event set.
func Known(name Name) bool {
	_, ok := names[name]
	return ok
}

// Handler receives published event data.
type Handler func(data any)

// HandlerID identifies a registered handler for unsubscription.
type HandlerID uint64

// registration pairs a handler with its identity.
type registration struct {
	id HandlerID
	fn Handler
}

// Bus is a typed publish/subscribe registry. The zero value is not
// usable; create one with NewBus.
type Bus struct {
	mu       sync.Mutex
	handlers map[Name][]registration
	nextID   HandlerID
}

// NewBus creates an event bus for the fixed event set.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Name][]registration),
	}
}

// Subscribe registers a handler for an event and returns its ID.
// Handlers fire in registration order; the same function may be
// registered more than once and fires independently for each
// registration.
func (b *Bus) Subscribe(name Name, fn Handler) (HandlerID, error) {
	if !Known(name) {
		return 0, ErrUnknownEvent
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[name] = append(b.handlers[name], registration{id: id, fn: fn})
	return id, nil
}

// Unsubscribe removes the handler registered under id for the given
// event. It is a no-op if the ID is absent.
func (b *Bus) Unsubscribe(name Name, id HandlerID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[name]
	for i, reg := range regs {
		if reg.id == id {
			b.handlers[name] = append(regs[:i], regs[i+1:]...)
			return
		}
	}
}

// Publish invokes every handler registered for the event, in
// registration order, synchronously on the calling goroutine. A handler
// that panics does not prevent subsequent handlers from running.
func (b *Bus) Publish(name Name, data any) error {
	if !Known(name) {
		return ErrUnknownEvent
	}

	b.mu.Lock()
	regs := make([]registration, len(b.handlers[name]))
	copy(regs, b.handlers[name])
	b.mu.Unlock()

	for _, reg := range regs {
		invoke(reg.fn, data)
	}
	return nil
}

// HandlerCount returns the number of handlers registered for an event.
func (b *Bus) HandlerCount(name Name) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[name])
}

// invoke runs a single handler, isolating panics.
func invoke(fn Handler, data any) {
	defer func() {
		_ = recover()
	}()
	fn(data)
}
