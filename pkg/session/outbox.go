package session

import (
	"sync"

	"github.com/playlink-protocol/playlink-go/pkg/wire"
)

// outbox is the ordered buffer of not-yet-sent envelopes. It is a pure
// FIFO with no size bound; a session that stays disconnected keeps
// accumulating until the next flush.
type outbox struct {
	mu    sync.Mutex
	items []wire.Envelope
}

func newOutbox() *outbox {
	return &outbox{}
}

// enqueue appends an envelope to the tail.
func (o *outbox) enqueue(env wire.Envelope) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.items = append(o.items, env)
}

// drain repeatedly pops the head and hands it to sink. On a handoff
// failure the popped envelope is pushed back to the head and draining
// stops, preserving order without dropping messages. Returns the number
// of envelopes handed off.
func (o *outbox) drain(sink func(wire.Envelope) error) int {
	sent := 0
	for {
		o.mu.Lock()
		if len(o.items) == 0 {
			o.mu.Unlock()
			return sent
		}
		env := o.items[0]
		o.items = o.items[1:]
		o.mu.Unlock()

		if err := sink(env); err != nil {
			o.mu.Lock()
			o.items = append([]wire.Envelope{env}, o.items...)
			o.mu.Unlock()
			return sent
		}
		sent++
	}
}

// len returns the queue depth.
func (o *outbox) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.items)
}
