package commands

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/playlink-protocol/playlink-go/pkg/log"
)

// writeJournal creates a journal file with a representative event mix.
func writeJournal(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "session.pjl")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create journal: %v", err)
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp:   base,
			SessionID:   "conn-aaaa-1111",
			Direction:   log.DirectionLocal,
			Category:    log.CategoryState,
			StateChange: &log.StateChangeEvent{OldState: "DISCONNECTED", NewState: "CONNECTING", Reason: "start"},
		},
		{
			Timestamp: base.Add(100 * time.Millisecond),
			SessionID: "conn-aaaa-1111",
			Direction: log.DirectionOut,
			Category:  log.CategoryMessage,
			Message:   &log.MessageEvent{Type: "PLAYER_UPDATE", Size: 120},
		},
		{
			Timestamp: base.Add(200 * time.Millisecond),
			SessionID: "conn-aaaa-1111",
			Direction: log.DirectionIn,
			Category:  log.CategoryMessage,
			Message:   &log.MessageEvent{Type: "PONG", Size: 60},
		},
		{
			Timestamp: base.Add(300 * time.Millisecond),
			SessionID: "conn-aaaa-1111",
			Direction: log.DirectionLocal,
			Category:  log.CategoryError,
			Error:     &log.ErrorEvent{Message: "connection reset", Context: "transport"},
		},
		{
			Timestamp: base.Add(400 * time.Millisecond),
			SessionID: "conn-aaaa-1111",
			Direction: log.DirectionLocal,
			Category:  log.CategoryClose,
			Close:     &log.CloseEvent{Code: 1006, Reason: "abnormal closure"},
		},
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close journal: %v", err)
	}
	return path
}

func TestRunView(t *testing.T) {
	path := writeJournal(t)

	var out bytes.Buffer
	if err := RunView(path, ViewFilter{}, &out); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{"PLAYER_UPDATE", "PONG", "connection reset", "code=1006", "DISCONNECTED -> CONNECTING"} {
		if !strings.Contains(text, want) {
			t.Errorf("view output missing %q:\n%s", want, text)
		}
	}
}

func TestRunViewFiltered(t *testing.T) {
	path := writeJournal(t)

	dir := log.DirectionIn
	var out bytes.Buffer
	if err := RunView(path, ViewFilter{Direction: &dir}, &out); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "PONG") {
		t.Errorf("inbound filter dropped the inbound message:\n%s", text)
	}
	if strings.Contains(text, "PLAYER_UPDATE") {
		t.Errorf("inbound filter kept an outbound message:\n%s", text)
	}
}

func TestRunViewTypeFilter(t *testing.T) {
	path := writeJournal(t)

	var out bytes.Buffer
	if err := RunView(path, ViewFilter{MessageType: "PONG"}, &out); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "PONG") || strings.Contains(text, "PLAYER_UPDATE") {
		t.Errorf("type filter mismatch:\n%s", text)
	}
}

func TestRunExport(t *testing.T) {
	path := writeJournal(t)

	var out bytes.Buffer
	if err := RunExport(path, &out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	var lines []exportRecord
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var rec exportRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("invalid JSONL line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, rec)
	}

	if len(lines) != 5 {
		t.Fatalf("expected 5 records, got %d", len(lines))
	}
	if lines[1].MessageType != "PLAYER_UPDATE" || lines[1].Direction != "OUT" {
		t.Errorf("unexpected second record: %+v", lines[1])
	}
	if lines[4].CloseCode != 1006 {
		t.Errorf("unexpected close record: %+v", lines[4])
	}
}

func TestRunStats(t *testing.T) {
	path := writeJournal(t)

	var out bytes.Buffer
	if err := RunStats(path, &out); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Events:      5",
		"Inbound:     1 messages, 60 bytes",
		"Outbound:    1 messages, 120 bytes",
		"Connects:    1",
		"Errors:      1",
		"PLAYER_UPDATE",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("stats output missing %q:\n%s", want, text)
		}
	}
}

func TestParseDirectionFlag(t *testing.T) {
	if _, err := ParseDirectionFlag("sideways"); err == nil {
		t.Error("expected error for invalid direction")
	}
	d, err := ParseDirectionFlag("IN")
	if err != nil || d != log.DirectionIn {
		t.Errorf("ParseDirectionFlag(IN) = %v, %v", d, err)
	}
}

func TestParseCategoryFlag(t *testing.T) {
	if _, err := ParseCategoryFlag("bogus"); err == nil {
		t.Error("expected error for invalid category")
	}
	c, err := ParseCategoryFlag("close")
	if err != nil || c != log.CategoryClose {
		t.Errorf("ParseCategoryFlag(close) = %v, %v", c, err)
	}
}
