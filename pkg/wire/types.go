package wire

// Vec3 is a position, rotation, or velocity vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PlayerUpdate is the periodic client state report.
//
// Health, IsAttacking, and IsDead are pointers so that an update can omit
// them; the server treats absent fields as unchanged.
type PlayerUpdate struct {
	Position    Vec3   `json:"position"`
	Rotation    Vec3   `json:"rotation"`
	Health      *int   `json:"health,omitempty"`
	IsAttacking *bool  `json:"isAttacking,omitempty"`
	IsDead      *bool  `json:"isDead,omitempty"`
	Animation   string `json:"animation,omitempty"`
}

// PlayerShoot reports a shot fired by the local player.
type PlayerShoot struct {
	Direction    Vec3   `json:"direction"`
	Origin       Vec3   `json:"origin"`
	ProjectileID string `json:"projectileId,omitempty"`
}

// PlayerDamage reports damage dealt to a target player.
type PlayerDamage struct {
	TargetID string `json:"targetId"`
	Amount   int    `json:"amount"`
}

// PlayerDeath announces a player death. Sent by the client with no
// fields; received from the server with the dead player's ID.
type PlayerDeath struct {
	PlayerID string `json:"playerId,omitempty"`
}

// PlayerRespawn announces a respawn. Sent by the client with the chosen
// position; received from the server with the respawned player's ID.
type PlayerRespawn struct {
	PlayerID string `json:"playerId,omitempty"`
	Position Vec3   `json:"position"`
}

// ProjectileSpawn announces a projectile entering the world.
type ProjectileSpawn struct {
	ID       string `json:"id"`
	Position Vec3   `json:"position"`
	Velocity Vec3   `json:"velocity"`
	OwnerID  string `json:"ownerId"`
}

// Ping is the client liveness probe. Timestamp is the sender clock in
// Unix millis; the server echoes it back in the PONG.
type Ping struct {
	Timestamp int64 `json:"timestamp"`
}

// Pong is the server's reply to a PING. Timestamp echoes the PING's
// timestamp; ServerTime is the server clock at reply time, Unix millis.
type Pong struct {
	Timestamp  int64 `json:"timestamp"`
	ServerTime int64 `json:"serverTime"`
}

// PlayerConnected is the server's handshake acknowledgement carrying the
// session identifier assigned to this client.
type PlayerConnected struct {
	ID string `json:"id"`
}

// PlayerDisconnected announces a remote player leaving the session.
type PlayerDisconnected struct {
	ID string `json:"id"`
}

// PlayerState is one player's authoritative state within a game state
// snapshot.
type PlayerState struct {
	ID          string `json:"id,omitempty"`
	Position    Vec3   `json:"position"`
	Rotation    Vec3   `json:"rotation"`
	Health      int    `json:"health"`
	IsAttacking bool   `json:"isAttacking,omitempty"`
	IsDead      bool   `json:"isDead,omitempty"`
	Animation   string `json:"animation,omitempty"`
}

// GameState is the authoritative world snapshot keyed by player ID.
type GameState struct {
	Players map[string]PlayerState `json:"players"`
}
