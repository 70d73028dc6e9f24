package log

import (
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestEncodeDecodeEvent(t *testing.T) {
	original := Event{
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		SessionID: "abc-123",
		Direction: DirectionOut,
		Category:  CategoryMessage,
		Message:   &MessageEvent{Type: "PLAYER_UPDATE", Size: 142},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("timestamp mismatch: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.SessionID != original.SessionID {
		t.Errorf("session ID mismatch: got %q, want %q", decoded.SessionID, original.SessionID)
	}
	if decoded.Direction != DirectionOut {
		t.Errorf("direction mismatch: got %v", decoded.Direction)
	}
	if decoded.Message == nil || decoded.Message.Type != "PLAYER_UPDATE" || decoded.Message.Size != 142 {
		t.Errorf("message payload mismatch: got %+v", decoded.Message)
	}
	if decoded.StateChange != nil || decoded.Close != nil || decoded.Error != nil {
		t.Error("unset payloads should decode as nil")
	}
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.journal")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create file logger: %v", err)
	}

	events := []Event{
		{
			Timestamp:   time.Now(),
			Direction:   DirectionLocal,
			Category:    CategoryState,
			StateChange: &StateChangeEvent{OldState: "DISCONNECTED", NewState: "CONNECTING"},
		},
		{
			Timestamp: time.Now(),
			Direction: DirectionIn,
			Category:  CategoryMessage,
			Message:   &MessageEvent{Type: "PONG", Size: 64},
		},
		{
			Timestamp: time.Now(),
			Direction: DirectionLocal,
			Category:  CategoryClose,
			Close:     &CloseEvent{Code: 1006, Reason: "abnormal closure"},
		},
	}
	for _, e := range events {
		logger.Log(e)
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}

	// Logging after close is dropped, not an error.
	logger.Log(Event{Category: CategoryError, Error: &ErrorEvent{Message: "late"}})

	reader, err := OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	defer reader.Close()

	read, err := reader.All()
	if err != nil {
		t.Fatalf("failed to read journal: %v", err)
	}
	if len(read) != len(events) {
		t.Fatalf("expected %d events, got %d", len(events), len(read))
	}

	if read[0].StateChange == nil || read[0].StateChange.NewState != "CONNECTING" {
		t.Errorf("unexpected first event: %+v", read[0])
	}
	if read[2].Close == nil || read[2].Close.Code != 1006 {
		t.Errorf("unexpected third event: %+v", read[2])
	}

	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after All, got %v", err)
	}
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.journal")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create file logger: %v", err)
	}

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				logger.Log(Event{
					Timestamp: time.Now(),
					Direction: DirectionOut,
					Category:  CategoryMessage,
					Message:   &MessageEvent{Type: "PING", Size: 32},
				})
			}
		}()
	}
	wg.Wait()

	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}

	reader, err := OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	defer reader.Close()

	read, err := reader.All()
	if err != nil {
		t.Fatalf("failed to read journal: %v", err)
	}
	if len(read) != writers*perWriter {
		t.Errorf("expected %d events, got %d", writers*perWriter, len(read))
	}
}

func TestMultiLogger(t *testing.T) {
	var a, b recordingLogger

	multi := NewMultiLogger(&a, &b)
	multi.Log(Event{Category: CategoryError, Error: &ErrorEvent{Message: "boom"}})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("expected one event in each logger, got %d and %d", len(a.events), len(b.events))
	}
}

func TestDirectionString(t *testing.T) {
	cases := map[Direction]string{
		DirectionIn:    "IN",
		DirectionOut:   "OUT",
		DirectionLocal: "LOCAL",
		Direction(99):  "UNKNOWN",
	}
	for d, want := range cases {
		if got := d.String(); got != want {
			t.Errorf("Direction(%d).String() = %q, want %q", d, got, want)
		}
	}
}

func TestCategoryString(t *testing.T) {
	cases := map[Category]string{
		CategoryMessage: "MESSAGE",
		CategoryState:   "STATE",
		CategoryClose:   "CLOSE",
		CategoryError:   "ERROR",
		Category(99):    "UNKNOWN",
	}
	for c, want := range cases {
		if got := c.String(); got != want {
			t.Errorf("Category(%d).String() = %q, want %q", c, got, want)
		}
	}
}

type recordingLogger struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingLogger) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}
