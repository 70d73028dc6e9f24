package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/playlink-protocol/playlink-go/pkg/log"
)

// exportRecord is the JSONL shape of one journal event.
type exportRecord struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"sessionId,omitempty"`
	Direction string    `json:"direction"`
	Category  string    `json:"category"`

	MessageType string `json:"messageType,omitempty"`
	MessageSize int    `json:"messageSize,omitempty"`

	OldState string `json:"oldState,omitempty"`
	NewState string `json:"newState,omitempty"`
	Reason   string `json:"reason,omitempty"`

	CloseCode int `json:"closeCode,omitempty"`

	Error        string `json:"error,omitempty"`
	ErrorContext string `json:"errorContext,omitempty"`
}

// RunExport executes the export command, writing one JSON object per
// line.
func RunExport(path string, output io.Writer) error {
	reader, err := log.OpenFile(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	enc := json.NewEncoder(output)

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		if err := enc.Encode(toExportRecord(event)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
}

func toExportRecord(event log.Event) exportRecord {
	rec := exportRecord{
		Timestamp: event.Timestamp,
		SessionID: event.SessionID,
		Direction: event.Direction.String(),
		Category:  event.Category.String(),
	}

	switch {
	case event.Message != nil:
		rec.MessageType = event.Message.Type
		rec.MessageSize = event.Message.Size
	case event.StateChange != nil:
		rec.OldState = event.StateChange.OldState
		rec.NewState = event.StateChange.NewState
		rec.Reason = event.StateChange.Reason
	case event.Close != nil:
		rec.CloseCode = event.Close.Code
		rec.Reason = event.Close.Reason
	case event.Error != nil:
		rec.Error = event.Error.Message
		rec.ErrorContext = event.Error.Context
	}

	return rec
}
