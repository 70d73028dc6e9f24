// Package commands implements the playlink-log CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/playlink-protocol/playlink-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view
// command.
type ViewFilter struct {
	Direction   *log.Direction
	Category    *log.Category
	MessageType string
}

// matches reports whether the event passes the filter.
func (f ViewFilter) matches(event log.Event) bool {
	if f.Direction != nil && event.Direction != *f.Direction {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.MessageType != "" {
		if event.Message == nil || event.Message.Type != f.MessageType {
			return false
		}
	}
	return true
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.OpenFile(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		if !filter.matches(event) {
			continue
		}
		formatEvent(output, event)
	}
}

// formatEvent writes a human-readable representation of the event.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z")
	conn := shortenID(event.SessionID)

	fmt.Fprintf(w, "%s [conn:%s] %-5s %s", ts, conn, event.Direction, event.Category)

	switch {
	case event.Message != nil:
		fmt.Fprintf(w, " %s (%d bytes)\n", event.Message.Type, event.Message.Size)

	case event.StateChange != nil:
		fmt.Fprintln(w)
		if event.StateChange.OldState != "" {
			fmt.Fprintf(w, "  %s -> %s\n", event.StateChange.OldState, event.StateChange.NewState)
		} else {
			fmt.Fprintf(w, "  -> %s\n", event.StateChange.NewState)
		}
		if event.StateChange.Reason != "" {
			fmt.Fprintf(w, "  Reason: %s\n", event.StateChange.Reason)
		}

	case event.Close != nil:
		fmt.Fprintf(w, " code=%d", event.Close.Code)
		if event.Close.Reason != "" {
			fmt.Fprintf(w, " reason=%q", event.Close.Reason)
		}
		fmt.Fprintln(w)

	case event.Error != nil:
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Message: %s\n", event.Error.Message)
		if event.Error.Context != "" {
			fmt.Fprintf(w, "  Context: %s\n", event.Error.Context)
		}

	default:
		fmt.Fprintln(w)
	}
}

// shortenID returns the first 8 characters of a correlation ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// ParseDirectionFlag parses a direction flag value (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	case "local":
		return log.DirectionLocal, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in, out, or local)", s)
	}
}

// ParseCategoryFlag parses a category flag value (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "state":
		return log.CategoryState, nil
	case "close":
		return log.CategoryClose, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, state, close, or error)", s)
	}
}
