package timekeeper

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"randomtimer/internal/core/model"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventModeStarted   EventType = "mode_started"
	EventStatusChanged EventType = "status_changed"
)

// Event represents a TimeKeeper update for observers. A zero
// NextTransitionAt means no transition is scheduled (idle). Seq increases
// with every emitted event; the initial idle status has Seq 0.
type Event struct {
	Seq              uint64
	Type             EventType
	SessionID        uuid.UUID
	Mode             model.Mode
	Level            model.DifficultyLevel
	Label            string
	NextTransitionAt time.Time
	At               time.Time
}

// HasNextTransition reports whether NextTransitionAt is set.
func (event Event) HasNextTransition() bool {
	return !event.NextTransitionAt.IsZero()
}

// Remaining returns the time left until the next transition, clamped at zero.
// now must come from the same clock that produced the event.
func (event Event) Remaining(now time.Time) time.Duration {
	if !event.HasNextTransition() {
		return 0
	}
	remaining := event.NextTransitionAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatRemaining renders a duration as MM:SS.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func idleEvent(at time.Time) Event {
	return Event{
		Type:  EventStatusChanged,
		Label: model.IdleLabel,
		At:    at,
	}
}
