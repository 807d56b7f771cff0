package timekeeper

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"randomtimer/internal/core/model"
)

// ErrInvalidTransition indicates a command that is not valid in the current state.
var ErrInvalidTransition = errors.New("invalid transition")

// Picker returns a minute count for a level and mode.
type Picker interface {
	Pick(level model.DifficultyLevel, mode model.Mode) int
}

// Session is one continuous run from start to stop.
type Session struct {
	ID               uuid.UUID
	Level            model.DifficultyLevel
	Mode             model.Mode
	NextTransitionAt time.Time
	StartedAt        time.Time
	Transitions      int
}

// State is either Idle or Running. The zero value is Idle.
type State struct {
	session *Session
}

// Running reports whether a session is active.
func (state State) Running() bool {
	return state.session != nil
}

// Session returns a copy of the active session.
func (state State) Session() (Session, bool) {
	if state.session == nil {
		return Session{}, false
	}
	return *state.session, true
}

// Mode returns the active mode, or "" when idle.
func (state State) Mode() model.Mode {
	if state.session == nil {
		return ""
	}
	return state.session.Mode
}

// Label returns the status label for the state.
func (state State) Label() string {
	if state.session == nil {
		return model.IdleLabel
	}
	return state.session.Mode.Label()
}

// Transition describes the effects of entering a mode.
type Transition struct {
	SessionID        uuid.UUID
	Level            model.DifficultyLevel
	Mode             model.Mode
	Minutes          int
	Delay            time.Duration
	NextTransitionAt time.Time
	At               time.Time
}

// Begin starts a session in FOCUS. Only valid from Idle. An unknown level is
// replaced by model.DefaultLevel.
func Begin(state State, level model.DifficultyLevel, now time.Time, picker Picker, unit time.Duration) (State, Transition, error) {
	if state.Running() {
		return state, Transition{}, fmt.Errorf("start while running: %w", ErrInvalidTransition)
	}
	if !level.Valid() {
		level = model.DefaultLevel
	}

	session := Session{
		ID:        uuid.New(),
		Level:     level,
		Mode:      model.ModeFocus,
		StartedAt: now,
	}
	transition := schedule(&session, now, picker, unit)
	return State{session: &session}, transition, nil
}

// Advance flips the mode of a running session and picks its duration.
func Advance(state State, now time.Time, picker Picker, unit time.Duration) (State, Transition, error) {
	if !state.Running() {
		return state, Transition{}, fmt.Errorf("tick while idle: %w", ErrInvalidTransition)
	}

	session := *state.session
	session.Mode = session.Mode.Next()
	session.Transitions++
	transition := schedule(&session, now, picker, unit)
	return State{session: &session}, transition, nil
}

// End returns the Idle state. Ending an idle state is a no-op.
func End(State) State {
	return State{}
}

func schedule(session *Session, now time.Time, picker Picker, unit time.Duration) Transition {
	minutes := picker.Pick(session.Level, session.Mode)
	if minutes < 0 {
		minutes = 0
	}
	delay := model.Minutes(minutes, unit)
	session.NextTransitionAt = now.Add(delay)

	return Transition{
		SessionID:        session.ID,
		Level:            session.Level,
		Mode:             session.Mode,
		Minutes:          minutes,
		Delay:            delay,
		NextTransitionAt: session.NextTransitionAt,
		At:               now,
	}
}
