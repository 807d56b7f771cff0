package notify

import (
	"fmt"

	"fyne.io/fyne/v2"

	"randomtimer/internal/core/model"
	"randomtimer/internal/core/timekeeper"
)

// Indicator shows that a session is running, e.g. a tray icon.
type Indicator interface {
	SetRunning(running bool)
}

// Desktop sends alerts through the fyne app.
type Desktop struct {
	app       fyne.App
	indicator Indicator
	enabled   func() bool
}

// NewDesktop creates a desktop notifier. enabled reports the user's
// notification preference and may be nil.
func NewDesktop(app fyne.App, indicator Indicator, enabled func() bool) *Desktop {
	if enabled == nil {
		enabled = func() bool { return true }
	}
	return &Desktop{app: app, indicator: indicator, enabled: enabled}
}

// Available reports whether alerts can be shown.
func (desktop *Desktop) Available() error {
	if desktop.app == nil {
		return fmt.Errorf("%w: no desktop app", timekeeper.ErrNotificationDenied)
	}
	if !desktop.enabled() {
		return fmt.Errorf("%w: disabled in settings", timekeeper.ErrNotificationDenied)
	}
	return nil
}

// NotifyModeStarted sends one alert for mode.
func (desktop *Desktop) NotifyModeStarted(mode model.Mode) error {
	if err := desktop.Available(); err != nil {
		return err
	}
	notification := fyne.NewNotification(Title(mode), RunningText)
	fyne.Do(func() {
		desktop.app.SendNotification(notification)
	})
	return nil
}

// ShowRunning switches the indicator on.
func (desktop *Desktop) ShowRunning() error {
	desktop.setRunning(true)
	return nil
}

// HideRunning switches the indicator off.
func (desktop *Desktop) HideRunning() {
	desktop.setRunning(false)
}

func (desktop *Desktop) setRunning(running bool) {
	if desktop.indicator == nil {
		return
	}
	fyne.Do(func() {
		desktop.indicator.SetRunning(running)
	})
}
