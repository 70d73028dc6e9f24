package clock

import (
	"sync"
	"time"
)

// Synchronizer tracks the estimated offset between the local and server
// clocks. It is safe for concurrent use.
type Synchronizer struct {
	mu sync.Mutex

	// offsetMillis is the signed clock offset estimate. Zero until the
	// first successful round trip.
	offsetMillis int64

	// lastRTT is the round-trip time of the most recent sample.
	lastRTT time.Duration

	// samples counts processed round trips.
	samples int

	// nowMillis returns the local clock in Unix millis. Overridable in
	// tests.
	nowMillis func() int64
}

// NewSynchronizer creates a synchronizer on the system clock.
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{
		nowMillis: func() int64 { return time.Now().UnixMilli() },
	}
}

// SetNowFunc overrides the local clock source. For tests.
func (s *Synchronizer) SetNowFunc(fn func() int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowMillis = fn
}

// ProcessPong folds one PONG round trip into the estimate. echoed is the
// timestamp this client stamped on the PING; serverTime is the server
// clock at reply time. The new sample overwrites the previous estimate.
func (s *Synchronizer) ProcessPong(echoed, serverTime int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowMillis()
	rtt := now - echoed
	if rtt < 0 {
		// Clock went backwards or the echo is bogus; drop the sample.
		return
	}

	s.offsetMillis = serverTime - (now - rtt/2)
	s.lastRTT = time.Duration(rtt) * time.Millisecond
	s.samples++
}

// Offset returns the current clock offset estimate in millis. Zero until
// the first round trip completes.
func (s *Synchronizer) Offset() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offsetMillis
}

// ServerTime returns the estimated server clock, Unix millis.
func (s *Synchronizer) ServerTime() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nowMillis() + s.offsetMillis
}

// RTT returns the round-trip time of the most recent sample.
func (s *Synchronizer) RTT() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRTT
}

// Samples returns the number of round trips processed.
func (s *Synchronizer) Samples() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.samples
}

// Reset clears the estimate, for example at explicit session teardown.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offsetMillis = 0
	s.lastRTT = 0
	s.samples = 0
}
