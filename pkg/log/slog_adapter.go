package log

import (
	"context"
	"log/slog"
)

// SlogAdapter mirrors journal events to a structured slog logger at
// debug level. Useful during development alongside a FileLogger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates an adapter writing to the given slog logger.
// A nil logger uses slog.Default.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Log writes the event at debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("direction", event.Direction.String()),
		slog.String("category", event.Category.String()),
	}
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session", event.SessionID))
	}

	switch {
	case event.Message != nil:
		attrs = append(attrs,
			slog.String("type", event.Message.Type),
			slog.Int("size", event.Message.Size),
		)
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("from", event.StateChange.OldState),
			slog.String("to", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Close != nil:
		attrs = append(attrs,
			slog.Int("code", event.Close.Code),
			slog.String("reason", event.Close.Reason),
		)
	case event.Error != nil:
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol event", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
