package remote

import (
	"time"

	"randomtimer/internal/core/timekeeper"
)

// Message is the JSON form of a TimeKeeper event. NextTransitionAt is
// wall-clock for display only; receivers should count down from
// RemainingSeconds, computed when the message was built.
type Message struct {
	Seq              uint64     `json:"seq,omitempty"`
	Type             string     `json:"type"`
	SessionID        string     `json:"session_id,omitempty"`
	Mode             string     `json:"mode,omitempty"`
	Level            string     `json:"level,omitempty"`
	Label            string     `json:"label"`
	Running          bool       `json:"running"`
	NextTransitionAt *time.Time `json:"next_transition_at,omitempty"`
	RemainingSeconds *int64     `json:"remaining_seconds,omitempty"`
	At               time.Time  `json:"at"`
}

func messageFromEvent(event timekeeper.Event, now time.Time) Message {
	message := Message{
		Seq:     event.Seq,
		Type:    string(event.Type),
		Mode:    string(event.Mode),
		Level:   string(event.Level),
		Label:   event.Label,
		Running: event.Mode != "",
		At:      event.At.Round(0).UTC(),
	}
	if event.Mode != "" {
		message.SessionID = event.SessionID.String()
	}
	if event.HasNextTransition() {
		next := event.NextTransitionAt.Round(0).UTC()
		remaining := int64(event.Remaining(now) / time.Second)
		message.NextTransitionAt = &next
		message.RemainingSeconds = &remaining
	}
	return message
}

func messageFromState(state timekeeper.State, now time.Time) Message {
	session, ok := state.Session()
	if !ok {
		return messageFromEvent(timekeeper.Event{
			Type:  timekeeper.EventStatusChanged,
			Label: state.Label(),
			At:    now,
		}, now)
	}
	return messageFromEvent(timekeeper.Event{
		Type:             timekeeper.EventStatusChanged,
		SessionID:        session.ID,
		Mode:             session.Mode,
		Level:            session.Level,
		Label:            state.Label(),
		NextTransitionAt: session.NextTransitionAt,
		At:               now,
	}, now)
}
