package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/playlink-protocol/playlink-go/pkg/event"
	"github.com/playlink-protocol/playlink-go/pkg/session"
	"github.com/playlink-protocol/playlink-go/pkg/transport"
	"github.com/playlink-protocol/playlink-go/pkg/wire"
)

// client wires the interactive prompt to a session. It keeps a local
// mirror of the last authoritative game state for the players command.
type client struct {
	sess     *session.Session
	endpoint string
	rl       *readline.Instance

	mu      sync.Mutex
	players map[string]wire.PlayerState
}

func newClient(sess *session.Session, endpoint string) (*client, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "playlink> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := &client{
		sess:     sess,
		endpoint: endpoint,
		rl:       rl,
		players:  make(map[string]wire.PlayerState),
	}
	c.subscribe()
	return c, nil
}

// subscribe attaches the event handlers that narrate the session.
func (c *client) subscribe() {
	bus := c.sess.Bus()

	_, _ = bus.Subscribe(event.Connect, func(any) {
		c.printf("Connected to %s", c.sess.Endpoint())
	})

	_, _ = bus.Subscribe(event.Disconnect, func(data any) {
		if status, ok := data.(transport.Status); ok {
			c.printf("Disconnected: %s", status)
			return
		}
		c.printf("Disconnected")
	})

	_, _ = bus.Subscribe(event.PlayerConnected, func(data any) {
		if env, ok := data.(wire.Envelope); ok {
			var pc wire.PlayerConnected
			if err := wire.Bind(env, &pc); err == nil {
				c.printf("Player joined: %s", pc.ID)
			}
		}
	})

	_, _ = bus.Subscribe(event.PlayerDisconnected, func(data any) {
		if env, ok := data.(wire.Envelope); ok {
			var pd wire.PlayerDisconnected
			if err := wire.Bind(env, &pd); err == nil {
				c.printf("Player left: %s", pd.ID)
				c.mu.Lock()
				delete(c.players, pd.ID)
				c.mu.Unlock()
			}
		}
	})

	_, _ = bus.Subscribe(event.GameStateUpdate, func(data any) {
		if env, ok := data.(wire.Envelope); ok {
			var state wire.GameState
			if err := wire.Bind(env, &state); err == nil {
				c.mu.Lock()
				c.players = state.Players
				c.mu.Unlock()
			}
		}
	})

	_, _ = bus.Subscribe(event.PlayerDamage, func(data any) {
		if env, ok := data.(wire.Envelope); ok {
			var dmg wire.PlayerDamage
			if err := wire.Bind(env, &dmg); err == nil {
				c.printf("Hit for %d damage (target %s)", dmg.Amount, dmg.TargetID)
			}
		}
	})

	_, _ = bus.Subscribe(event.PlayerDeath, func(data any) {
		if env, ok := data.(wire.Envelope); ok {
			var death wire.PlayerDeath
			if err := wire.Bind(env, &death); err == nil {
				c.printf("Player died: %s", death.PlayerID)
			}
		}
	})

	_, _ = bus.Subscribe(event.PlayerRespawn, func(data any) {
		if env, ok := data.(wire.Envelope); ok {
			var respawn wire.PlayerRespawn
			if err := wire.Bind(env, &respawn); err == nil {
				c.printf("Player respawned: %s", respawn.PlayerID)
			}
		}
	})
}

// printf writes a line through readline so it does not clobber the
// prompt.
func (c *client) printf(format string, args ...any) {
	fmt.Fprintf(c.rl.Stdout(), format+"\n", args...)
}

// run starts the interactive command loop.
func (c *client) run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	go func() {
		<-ctx.Done()
		c.rl.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			c.printf("Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "connect", "c":
			c.cmdConnect(ctx, args)

		case "disconnect", "d":
			c.sess.Disconnect()

		case "move", "m":
			c.cmdMove(args)

		case "jump", "j":
			c.sess.Send(wire.TypePlayerJump, nil)

		case "shoot":
			c.cmdShoot(args)

		case "attack":
			c.sess.Send(wire.TypePlayerAttack, nil)

		case "damage":
			c.cmdDamage(args)

		case "die":
			c.sess.Send(wire.TypePlayerDeath, nil)

		case "respawn":
			c.cmdRespawn(args)

		case "ping":
			c.cmdPing()

		case "players", "ls":
			c.cmdPlayers()

		case "stats", "status":
			c.cmdStats()

		case "auto":
			c.cmdAuto(args)

		case "quit", "exit", "q":
			c.printf("Exiting...")
			cancel()
			return

		default:
			c.printf("Unknown command: %s (type 'help' for commands)", cmd)
		}
	}
}

func (c *client) printHelp() {
	c.printf(`
Playlink Client Commands:
  Connection:
    connect [url]         - Connect (default: %s)
    disconnect            - Disconnect with a normal closure
    auto on|off           - Enable/disable auto-reconnect

  Gameplay:
    move <x> <y> <z>      - Send a position update
    jump                  - Jump
    shoot [x y z]         - Shoot (direction, default forward)
    attack                - Melee attack
    damage <player> <n>   - Report n damage dealt to a player
    die                   - Report own death
    respawn [x y z]       - Respawn at position

  Session:
    ping                  - Show round-trip time and clock offset
    players               - Show the last known game state
    stats                 - Show session statistics
    help                  - Show this help
    quit                  - Exit`, c.endpoint)
}

func (c *client) cmdConnect(ctx context.Context, args []string) {
	ep := c.endpoint
	if len(args) > 0 {
		ep = args[0]
	}

	c.printf("Connecting to %s...", ep)
	if err := c.sess.Start(ctx, ep); err != nil {
		c.printf("Connect failed: %v", err)
	}
}

func (c *client) cmdMove(args []string) {
	if len(args) < 3 {
		c.printf("Usage: move <x> <y> <z>")
		return
	}
	pos, err := parseVec3(args)
	if err != nil {
		c.printf("Invalid position: %v", err)
		return
	}

	c.sess.Send(wire.TypePlayerUpdate, wire.PlayerUpdate{Position: pos})
}

func (c *client) cmdShoot(args []string) {
	dir := wire.Vec3{Z: -1}
	if len(args) >= 3 {
		parsed, err := parseVec3(args)
		if err != nil {
			c.printf("Invalid direction: %v", err)
			return
		}
		dir = parsed
	}

	c.sess.Send(wire.TypePlayerShoot, wire.PlayerShoot{Direction: dir})
}

func (c *client) cmdDamage(args []string) {
	if len(args) < 2 {
		c.printf("Usage: damage <player-id> <amount>")
		return
	}
	amount, err := strconv.Atoi(args[1])
	if err != nil {
		c.printf("Invalid amount: %v", err)
		return
	}

	c.sess.Send(wire.TypePlayerDamage, wire.PlayerDamage{TargetID: args[0], Amount: amount})
}

func (c *client) cmdRespawn(args []string) {
	var pos wire.Vec3
	if len(args) >= 3 {
		parsed, err := parseVec3(args)
		if err != nil {
			c.printf("Invalid position: %v", err)
			return
		}
		pos = parsed
	}

	c.sess.Send(wire.TypePlayerRespawn, wire.PlayerRespawn{Position: pos})
}

func (c *client) cmdPing() {
	clock := c.sess.Clock()
	if clock.Samples() == 0 {
		c.printf("No PONG received yet")
		return
	}
	c.printf("RTT: %s, clock offset: %dms, server time: %s",
		clock.RTT(),
		clock.Offset(),
		time.UnixMilli(clock.ServerTime()).Format("15:04:05.000"))
}

func (c *client) cmdPlayers() {
	c.mu.Lock()
	players := make([]wire.PlayerState, 0, len(c.players))
	ids := make([]string, 0, len(c.players))
	for id := range c.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := c.players[id]
		if p.ID == "" {
			p.ID = id
		}
		players = append(players, p)
	}
	c.mu.Unlock()

	if len(players) == 0 {
		c.printf("No game state received yet")
		return
	}

	self := c.sess.SessionID()
	c.printf("\nPlayers (%d):", len(players))
	for _, p := range players {
		marker := " "
		if p.ID == self {
			marker = "*"
		}
		status := fmt.Sprintf("%d hp", p.Health)
		if p.IsDead {
			status = "dead"
		}
		c.printf("  %s %-20s (%.1f, %.1f, %.1f)  %s",
			marker, p.ID, p.Position.X, p.Position.Y, p.Position.Z, status)
	}
}

func (c *client) cmdStats() {
	stats := c.sess.Stats()

	c.printf("\nSession Status")
	c.printf("-------------------------------------------")
	c.printf("  State:              %s", stats.State)
	c.printf("  Endpoint:           %s", stats.Endpoint)
	c.printf("  Session ID:         %s", stats.SessionID)
	c.printf("  Auto-reconnect:     %t", stats.AutoReconnect)
	c.printf("  Reconnect attempts: %d", stats.ReconnectAttempts)
	c.printf("  Queued messages:    %d", stats.QueueDepth)
	c.printf("  Clock offset:       %dms", stats.ClockOffsetMillis)
	c.printf("  RTT:                %s", stats.RTT)
	if !stats.LastInbound.IsZero() {
		c.printf("  Last inbound:       %s", stats.LastInbound.Format("15:04:05.000"))
	}
}

func (c *client) cmdAuto(args []string) {
	if len(args) < 1 {
		c.printf("Usage: auto on|off")
		return
	}
	switch strings.ToLower(args[0]) {
	case "on":
		c.sess.EnableAutoReconnect()
		c.printf("Auto-reconnect enabled, attempt counter reset")
	case "off":
		c.sess.DisableAutoReconnect()
		c.printf("Auto-reconnect disabled")
	default:
		c.printf("Usage: auto on|off")
	}
}

// parseVec3 parses three coordinate arguments.
func parseVec3(args []string) (wire.Vec3, error) {
	var v wire.Vec3
	coords := [3]*float64{&v.X, &v.Y, &v.Z}
	for i, dst := range coords {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return wire.Vec3{}, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
		*dst = f
	}
	return v, nil
}
