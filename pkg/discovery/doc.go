// Package discovery finds Playlink game servers on the local network
// via mDNS/DNS-SD and lets servers announce themselves.
//
// Servers advertise the _playlink._tcp service with TXT records
// describing the game (name, mode, player counts, protocol version).
// Clients browse for servers and turn an entry into a WebSocket
// endpoint URL to hand to the session.
package discovery
