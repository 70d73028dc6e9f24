package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/playlink-protocol/playlink-go/pkg/log"
)

// journalStats aggregates counters over a journal file.
type journalStats struct {
	Total      int
	Inbound    int
	Outbound   int
	Errors     int
	ByType     map[string]int
	BytesIn    int
	BytesOut   int
	Reconnects int
	First      time.Time
	Last       time.Time
}

// collectStats reads the whole journal and aggregates counters.
func collectStats(reader *log.Reader) (journalStats, error) {
	stats := journalStats{ByType: make(map[string]int)}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read event: %w", err)
		}

		stats.Total++
		if stats.First.IsZero() || event.Timestamp.Before(stats.First) {
			stats.First = event.Timestamp
		}
		if event.Timestamp.After(stats.Last) {
			stats.Last = event.Timestamp
		}

		switch event.Category {
		case log.CategoryMessage:
			if event.Message == nil {
				continue
			}
			stats.ByType[event.Message.Type]++
			switch event.Direction {
			case log.DirectionIn:
				stats.Inbound++
				stats.BytesIn += event.Message.Size
			case log.DirectionOut:
				stats.Outbound++
				stats.BytesOut += event.Message.Size
			}

		case log.CategoryState:
			if event.StateChange != nil &&
				event.StateChange.NewState == "CONNECTING" &&
				event.StateChange.OldState == "DISCONNECTED" {
				stats.Reconnects++
			}

		case log.CategoryError:
			stats.Errors++
		}
	}
}

// RunStats executes the stats command.
func RunStats(path string, output io.Writer) error {
	reader, err := log.OpenFile(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	stats, err := collectStats(reader)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Events:      %d\n", stats.Total)
	if !stats.First.IsZero() {
		fmt.Fprintf(output, "Time span:   %s to %s (%s)\n",
			stats.First.UTC().Format(time.RFC3339),
			stats.Last.UTC().Format(time.RFC3339),
			stats.Last.Sub(stats.First).Round(time.Millisecond))
	}
	fmt.Fprintf(output, "Inbound:     %d messages, %d bytes\n", stats.Inbound, stats.BytesIn)
	fmt.Fprintf(output, "Outbound:    %d messages, %d bytes\n", stats.Outbound, stats.BytesOut)
	fmt.Fprintf(output, "Connects:    %d\n", stats.Reconnects)
	fmt.Fprintf(output, "Errors:      %d\n", stats.Errors)

	if len(stats.ByType) > 0 {
		fmt.Fprintln(output, "\nMessages by type:")
		types := make([]string, 0, len(stats.ByType))
		for typ := range stats.ByType {
			types = append(types, typ)
		}
		sort.Slice(types, func(i, j int) bool {
			if stats.ByType[types[i]] != stats.ByType[types[j]] {
				return stats.ByType[types[i]] > stats.ByType[types[j]]
			}
			return types[i] < types[j]
		})
		for _, typ := range types {
			fmt.Fprintf(output, "  %-22s %d\n", typ, stats.ByType[typ])
		}
	}

	return nil
}
