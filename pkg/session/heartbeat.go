package session

import (
	"sync"
	"time"
)

// heartbeat periodically emits a liveness probe while the session is
// connected. It does not track missed pongs independently: liveness is
// inferred opportunistically from transport readiness checks. If the
// transport is observed not ready when a tick fires, the monitor treats
// that as a connection loss and stops.
type heartbeat struct {
	interval time.Duration

	// ready reports whether the transport still accepts writes.
	ready func() bool

	// ping emits one liveness probe.
	ping func()

	// onNotReady fires when a tick finds the transport not ready.
	onNotReady func()

	stopCh   chan struct{}
	stopOnce sync.Once
}

func newHeartbeat(interval time.Duration, ready func() bool, ping func(), onNotReady func()) *heartbeat {
	return &heartbeat{
		interval:   interval,
		ready:      ready,
		ping:       ping,
		onNotReady: onNotReady,
		stopCh:     make(chan struct{}),
	}
}

// start begins the probe loop in its own goroutine.
func (h *heartbeat) start() {
	go h.loop()
}

// stop halts the probe loop. Idempotent; the timer is discarded on every
// transition out of the connected state.
func (h *heartbeat) stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
	})
}

func (h *heartbeat) loop() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			if !h.ready() {
				h.onNotReady()
				return
			}
			h.ping()
		}
	}
}
