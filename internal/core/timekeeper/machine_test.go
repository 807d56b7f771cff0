package timekeeper

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"randomtimer/internal/core/model"
	"randomtimer/internal/core/picker"
)

var epoch = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func TestBeginStartsInFocus(t *testing.T) {
	state, transition, err := Begin(State{}, model.LevelEasy, epoch, picker.NewSeeded(1), time.Minute)
	require.NoError(t, err)
	require.True(t, state.Running())
	require.Equal(t, model.ModeFocus, state.Mode())

	session, ok := state.Session()
	require.True(t, ok)
	require.True(t, session.NextTransitionAt.After(epoch))
	require.Equal(t, session.NextTransitionAt, transition.NextTransitionAt)
	require.Equal(t, session.ID, transition.SessionID)
	require.Equal(t, model.ModeFocus, transition.Mode)
	require.GreaterOrEqual(t, transition.Minutes, 20)
	require.LessOrEqual(t, transition.Minutes, 40)
}

func TestBeginRejectsRunning(t *testing.T) {
	state, _, err := Begin(State{}, model.LevelEasy, epoch, picker.NewSeeded(1), time.Minute)
	require.NoError(t, err)

	again, _, err := Begin(state, model.LevelHard, epoch, picker.NewSeeded(1), time.Minute)
	require.True(t, errors.Is(err, ErrInvalidTransition))
	require.Equal(t, state, again)
}

func TestBeginUnknownLevelUsesDefault(t *testing.T) {
	state, _, err := Begin(State{}, model.DifficultyLevel("??"), epoch, picker.NewSeeded(1), time.Minute)
	require.NoError(t, err)
	session, _ := state.Session()
	require.Equal(t, model.DefaultLevel, session.Level)
}

func TestAdvanceFlipsOnce(t *testing.T) {
	source := picker.NewSeeded(5)
	state, _, err := Begin(State{}, model.LevelMedium, epoch, source, time.Minute)
	require.NoError(t, err)

	now := epoch
	for i := 0; i < 20; i++ {
		before := state.Mode()
		now = now.Add(time.Hour)
		state, _, err = Advance(state, now, source, time.Minute)
		require.NoError(t, err)
		require.NotEqual(t, before, state.Mode())
		require.Equal(t, before.Next(), state.Mode())
	}
	session, _ := state.Session()
	require.Equal(t, 20, session.Transitions)
}

func TestAdvanceWhileIdle(t *testing.T) {
	_, _, err := Advance(State{}, epoch, picker.NewSeeded(1), time.Minute)
	require.True(t, errors.Is(err, ErrInvalidTransition))

	state, _, err := Begin(State{}, model.LevelEasy, epoch, picker.NewSeeded(1), time.Minute)
	require.NoError(t, err)
	state = End(state)
	require.False(t, state.Running())
	require.Equal(t, model.IdleLabel, state.Label())

	_, _, err = Advance(state, epoch, picker.NewSeeded(1), time.Minute)
	require.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestEndIsIdempotent(t *testing.T) {
	require.False(t, End(End(State{})).Running())
}

func TestZeroMinuteRest(t *testing.T) {
	fixed := picker.Fixed{Minutes: map[model.Mode]int{model.ModeFocus: 35, model.ModeRest: 0}}
	state, _, err := Begin(State{}, model.LevelMedium, epoch, fixed, time.Minute)
	require.NoError(t, err)

	tickAt := epoch.Add(35 * time.Minute)
	state, transition, err := Advance(state, tickAt, fixed, time.Minute)
	require.NoError(t, err)
	require.Equal(t, model.ModeRest, state.Mode())
	require.Equal(t, time.Duration(0), transition.Delay)
	require.Equal(t, tickAt, transition.NextTransitionAt)
}

func TestFormatRemaining(t *testing.T) {
	require.Equal(t, "00:00", FormatRemaining(-time.Second))
	require.Equal(t, "01:05", FormatRemaining(65*time.Second))
	require.Equal(t, "90:00", FormatRemaining(90*time.Minute))
}

func TestEventRemaining(t *testing.T) {
	event := Event{NextTransitionAt: epoch.Add(time.Minute)}
	require.Equal(t, 30*time.Second, event.Remaining(epoch.Add(30*time.Second)))
	require.Equal(t, time.Duration(0), event.Remaining(epoch.Add(2*time.Minute)))
	require.Equal(t, time.Duration(0), Event{}.Remaining(epoch))
}
