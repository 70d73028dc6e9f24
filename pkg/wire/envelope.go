package wire

import (
	"time"
)

// Message type tags sent by the client.
const (
	TypePlayerUpdate    = "PLAYER_UPDATE"
	TypePlayerJump      = "PLAYER_JUMP"
	TypePlayerShoot     = "PLAYER_SHOOT"
	TypePlayerAttack    = "PLAYER_ATTACK"
	TypePlayerDamage    = "PLAYER_DAMAGE"
	TypePlayerDeath     = "PLAYER_DEATH"
	TypePlayerRespawn   = "PLAYER_RESPAWN"
	TypeProjectileSpawn = "PROJECTILE_SPAWN"
	TypePing            = "PING"
)

// Message type tags sent by the server.
const (
	TypePlayerConnected    = "PLAYER_CONNECTED"
	TypePlayerDisconnected = "PLAYER_DISCONNECTED"
	TypeGameState          = "GAME_STATE"
	TypeGameStateUpdate    = "GAME_STATE_UPDATE"
	TypePong               = "PONG"
)

// knownTypes is the closed set of message types this client understands.
// Unknown tags still decode; they are routed to a default path by the
// session layer.
var knownTypes = map[string]struct{}{
	TypePlayerUpdate:       {},
	TypePlayerJump:         {},
	TypePlayerShoot:        {},
	TypePlayerAttack:       {},
	TypePlayerDamage:       {},
	TypePlayerDeath:        {},
	TypePlayerRespawn:      {},
	TypeProjectileSpawn:    {},
	TypePing:               {},
	TypePlayerConnected:    {},
	TypePlayerDisconnected: {},
	TypeGameState:          {},
	TypeGameStateUpdate:    {},
	TypePong:               {},
}

// KnownType reports whether t is a message type this client understands.
func KnownType(t string) bool {
	_, ok := knownTypes[t]
	return ok
}

// Envelope is a single typed, timestamped message unit.
//
// Envelopes are immutable once constructed. Fields holds the flattened
// type-specific fields exactly as they appear on the wire, excluding the
// "type" and "timestamp" keys.
type Envelope struct {
	// Type is the message type tag.
	Type string

	// Timestamp is the sender's local clock at construction, Unix millis.
	Timestamp int64

	// Fields holds the type-specific fields of the message.
	Fields map[string]any
}

// NewEnvelope constructs an envelope of the given type stamped with the
// current local time. The payload may be nil, a map, or a struct with
// json tags; it is flattened into the envelope's fields.
func NewEnvelope(msgType string, payload any) (Envelope, error) {
	fields, err := flatten(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Fields:    fields,
	}, nil
}

// NewEnvelopeAt is NewEnvelope with an explicit timestamp, for callers
// that stamp envelopes from an injected clock.
func NewEnvelopeAt(msgType string, payload any, timestamp int64) (Envelope, error) {
	fields, err := flatten(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		Type:      msgType,
		Timestamp: timestamp,
		Fields:    fields,
	}, nil
}

// Field returns a named type-specific field, or nil if absent.
func (e Envelope) Field(name string) any {
	if e.Fields == nil {
		return nil
	}
	return e.Fields[name]
}
