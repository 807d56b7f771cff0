package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"randomtimer/internal/core/model"
	"randomtimer/internal/core/timekeeper"
)

func TestTitle(t *testing.T) {
	require.Equal(t, "Time to focus", Title(model.ModeFocus))
	require.Equal(t, "Time to rest", Title(model.ModeRest))
}

func TestTerminalOutput(t *testing.T) {
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })

	var buf bytes.Buffer
	terminal := NewTerminal(&buf, nil)
	terminal.now = func() time.Time { return time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC) }

	require.NoError(t, terminal.Available())
	require.NoError(t, terminal.ShowRunning())
	require.NoError(t, terminal.ShowRunning())
	require.NoError(t, terminal.NotifyModeStarted(model.ModeFocus))
	require.NoError(t, terminal.NotifyModeStarted(model.ModeRest))
	terminal.HideRunning()
	terminal.HideRunning()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, []string{
		RunningText,
		"09:30:00 Time to focus",
		"09:30:00 Time to rest",
		"Random timer stopped",
	}, lines)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestTerminalWriteError(t *testing.T) {
	terminal := NewTerminal(failingWriter{}, nil)
	require.Error(t, terminal.NotifyModeStarted(model.ModeFocus))
}

func TestTerminalDisabled(t *testing.T) {
	var buf bytes.Buffer
	terminal := NewTerminal(&buf, func() bool { return false })

	err := terminal.Available()
	require.True(t, errors.Is(err, timekeeper.ErrNotificationDenied))
	require.Empty(t, buf.String())
}

func TestDesktopUnavailable(t *testing.T) {
	desktop := NewDesktop(nil, nil, nil)
	err := desktop.Available()
	require.True(t, errors.Is(err, timekeeper.ErrNotificationDenied))
	require.True(t, errors.Is(desktop.NotifyModeStarted(model.ModeFocus), timekeeper.ErrNotificationDenied))
	require.NoError(t, desktop.ShowRunning())
	desktop.HideRunning()
}
