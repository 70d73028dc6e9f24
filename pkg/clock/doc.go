// Package clock derives a best-effort estimate of the offset between the
// local and server clocks from PING/PONG round trips.
//
// The estimator is the standard midpoint: rtt = now - echoed, offset =
// serverTime - (now - rtt/2), assuming symmetric network delay. Every
// sample overwrites the previous estimate (last-sample-wins), so the
// estimate tracks the most recent round trip and is sensitive to
// transient latency spikes.
package clock
