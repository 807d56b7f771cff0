package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"randomtimer/internal/core/model"
	"randomtimer/internal/core/timekeeper"
)

// Terminal prints alerts to a writer, for headless runs.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	now     func() time.Time
	enabled func() bool
	focus   *color.Color
	rest    *color.Color
	muted   *color.Color
	running bool
}

// NewTerminal creates a terminal notifier. A nil writer uses color.Output;
// a nil enabled always allows notifications.
func NewTerminal(out io.Writer, enabled func() bool) *Terminal {
	if out == nil {
		out = color.Output
	}
	if enabled == nil {
		enabled = func() bool { return true }
	}
	return &Terminal{
		out:     out,
		now:     time.Now,
		enabled: enabled,
		focus:   color.New(color.FgRed, color.Bold),
		rest:    color.New(color.FgGreen, color.Bold),
		muted:   color.New(color.Faint),
	}
}

// Available reports ErrNotificationDenied when notifications are turned off.
func (terminal *Terminal) Available() error {
	if !terminal.enabled() {
		return fmt.Errorf("%w: disabled by configuration", timekeeper.ErrNotificationDenied)
	}
	return nil
}

// NotifyModeStarted prints a colored line for mode.
func (terminal *Terminal) NotifyModeStarted(mode model.Mode) error {
	terminal.mu.Lock()
	defer terminal.mu.Unlock()

	paint := terminal.focus
	if mode == model.ModeRest {
		paint = terminal.rest
	}
	stamp := terminal.now().Format(time.TimeOnly)
	if _, err := fmt.Fprintf(terminal.out, "%s %s\n", terminal.muted.Sprint(stamp), paint.Sprint(Title(mode))); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}

// ShowRunning prints the running banner once per session.
func (terminal *Terminal) ShowRunning() error {
	terminal.mu.Lock()
	defer terminal.mu.Unlock()
	if terminal.running {
		return nil
	}
	terminal.running = true
	if _, err := fmt.Fprintln(terminal.out, terminal.muted.Sprint(RunningText)); err != nil {
		return fmt.Errorf("write running banner: %w", err)
	}
	return nil
}

// HideRunning prints the stop line.
func (terminal *Terminal) HideRunning() {
	terminal.mu.Lock()
	defer terminal.mu.Unlock()
	if !terminal.running {
		return
	}
	terminal.running = false
	_, _ = fmt.Fprintln(terminal.out, terminal.muted.Sprint("Random timer stopped"))
}
