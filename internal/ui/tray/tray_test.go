package tray

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"randomtimer/internal/core/model"
	"randomtimer/internal/core/timekeeper"
)

func TestStatusText(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	event := timekeeper.Event{
		Type:             timekeeper.EventStatusChanged,
		Mode:             model.ModeFocus,
		Label:            "Focus",
		NextTransitionAt: now.Add(12*time.Minute + 5*time.Second),
	}

	require.Equal(t, "Focus (12:05 left)", StatusText(event, now, false))
	require.Equal(t, "Focus", StatusText(event, now, true))
	require.Equal(t, "Focus (00:00 left)", StatusText(event, now.Add(time.Hour), false))
	require.Equal(t, model.IdleLabel, StatusText(timekeeper.Event{}, now, false))
}

func TestManagerWithoutDesktop(t *testing.T) {
	var started model.DifficultyLevel
	hidden := false
	manager := New(nil, Callbacks{
		OnStart:         func(level model.DifficultyLevel) { started = level },
		OnHideRemaining: func(hide bool) { hidden = hide },
	}, false)
	require.False(t, manager.startItem.Disabled)
	require.True(t, manager.stopItem.Disabled)

	manager.startItem.ChildMenu.Items[2].Action()
	require.Equal(t, model.LevelHard, started)

	manager.SetRunning(true)
	require.True(t, manager.startItem.Disabled)
	require.False(t, manager.stopItem.Disabled)

	now := time.Now()
	manager.SetStatus(timekeeper.Event{Label: "Rest", Mode: model.ModeRest, NextTransitionAt: now.Add(90 * time.Second)}, now)
	require.Equal(t, "Status: Rest (01:30 left)", manager.statusItem.Label)

	manager.hideItem.Action()
	require.True(t, hidden)
	require.Equal(t, "Status: Rest", manager.statusItem.Label)
}
