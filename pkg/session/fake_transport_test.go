package session

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/playlink-protocol/playlink-go/pkg/transport"
)

// fakeTransport is a scriptable in-memory transport for session tests.
// Tests drive inbound traffic and close notifications through the fire
// helpers.
type fakeTransport struct {
	mu sync.Mutex

	openErr   error
	blockOpen bool
	sendErr   error
	notReady  bool

	// openMessage, when set, is delivered through onMessage from inside
	// Open, before Open returns. Mirrors a server that speaks first.
	openMessage []byte

	opened      bool
	closed      bool
	closeStatus transport.Status
	sent        [][]byte

	onMessage func([]byte)
	onClose   func(transport.Status)
	onError   func(error)
}

func (f *fakeTransport) Open(ctx context.Context, endpoint string) error {
	if f.blockOpen {
		<-ctx.Done()
		return ctx.Err()
	}

	f.mu.Lock()
	if f.openErr != nil {
		f.mu.Unlock()
		return f.openErr
	}
	f.opened = true
	msg := f.openMessage
	f.mu.Unlock()

	if msg != nil {
		f.fireMessage(msg)
	}
	return nil
}

func (f *fakeTransport) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.sent = append(f.sent, cp)
	return nil
}

func (f *fakeTransport) Close(status transport.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		f.closeStatus = status
	}
	return nil
}

func (f *fakeTransport) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opened && !f.closed && !f.notReady
}

func (f *fakeTransport) OnMessage(fn func([]byte)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onMessage = fn
}

func (f *fakeTransport) OnClose(fn func(transport.Status)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onClose = fn
}

func (f *fakeTransport) OnError(fn func(error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onError = fn
}

// fireMessage delivers an inbound message as the reader goroutine would.
func (f *fakeTransport) fireMessage(data []byte) {
	f.mu.Lock()
	fn := f.onMessage
	f.mu.Unlock()
	if fn != nil {
		fn(data)
	}
}

// fireClose delivers a close notification as the reader goroutine would.
func (f *fakeTransport) fireClose(status transport.Status) {
	f.mu.Lock()
	fn := f.onClose
	f.mu.Unlock()
	if fn != nil {
		fn(status)
	}
}

// sentTypes returns the type tags of everything sent, in order.
func (f *fakeTransport) sentTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	types := make([]string, 0, len(f.sent))
	for _, data := range f.sent {
		var obj struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &obj); err == nil {
			types = append(types, obj.Type)
		}
	}
	return types
}

func (f *fakeTransport) setSendErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendErr = err
}

func (f *fakeTransport) setNotReady(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notReady = v
}

// fakeFactory hands out fakeTransports and counts how many the session
// asked for.
type fakeFactory struct {
	mu    sync.Mutex
	calls atomic.Int32
	next  func() *fakeTransport
	made  []*fakeTransport
}

func newFakeFactory() *fakeFactory {
	f := &fakeFactory{}
	f.next = func() *fakeTransport { return &fakeTransport{} }
	return f
}

func (f *fakeFactory) factory() transport.Transport {
	f.calls.Add(1)
	tr := f.next()
	f.mu.Lock()
	f.made = append(f.made, tr)
	f.mu.Unlock()
	return tr
}

func (f *fakeFactory) transport(i int) *fakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.made) {
		return nil
	}
	return f.made[i]
}

var _ transport.Transport = (*fakeTransport)(nil)
