package engine

import (
	"fmt"
	"time"

	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/config"
)

// EventWindow is an immutable promotional period, anchored in UTC.
// Start and End are inclusive instants with Start <= End; the calendar
// fields they were built from carry no further meaning once constructed.
type EventWindow struct {
	// ID is a stable identifier used for feeds and logging.
	ID string

	// Name is the human-friendly event label.
	Name string

	Start time.Time
	End   time.Time
}

// DefaultWindows returns the built-in event table. The literal calendar
// values are interpreted as UTC, matching the in-game event schedule.
func DefaultWindows() []EventWindow {
	return []EventWindow{
		{
			ID:    "wild-area-2024",
			Name:  "Wild Area 2024",
			Start: time.Date(2024, 11, 23, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 11, 24, 23, 59, 59, 0, time.UTC),
		},
		{
			ID:    "mighty-weekend-2024",
			Name:  "Mighty Weekend 2024",
			Start: time.Date(2024, 12, 7, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 12, 8, 23, 59, 59, 0, time.UTC),
		},
	}
}

// WindowsFromConfig builds the event table from configuration entries,
// falling back to the built-ins when none are configured. Timestamps
// are RFC3339; each window must satisfy Start <= End.
func WindowsFromConfig(events []config.EventConfig) ([]EventWindow, error) {
	if len(events) == 0 {
		return DefaultWindows(), nil
	}

	windows := make([]EventWindow, 0, len(events))
	for _, e := range events {
		if e.ID == "" {
			return nil, fmt.Errorf("%s: %+v", config.ErrWindowID, e)
		}

		start, err := time.Parse(time.RFC3339, e.Start)
		if err != nil {
			return nil, fmt.Errorf("%s (%s start): %w", config.ErrWindowParse, e.ID, err)
		}
		end, err := time.Parse(time.RFC3339, e.End)
		if err != nil {
			return nil, fmt.Errorf("%s (%s end): %w", config.ErrWindowParse, e.ID, err)
		}

		if end.Before(start) {
			return nil, fmt.Errorf("%s: %s", config.ErrWindowOrder, e.ID)
		}

		name := e.Name
		if name == "" {
			name = e.ID
		}

		windows = append(windows, EventWindow{
			ID:    e.ID,
			Name:  name,
			Start: start.UTC(),
			End:   end.UTC(),
		})
	}
	return windows, nil
}
