package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"randomtimer/internal/core/model"
	"randomtimer/internal/core/timekeeper"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStart         func(model.DifficultyLevel)
	OnStop          func()
	OnHideRemaining func(bool)
	OnPreferences   func()
	OnQuit          func()
}

// Manager handles system tray state. Methods must run on the fyne thread.
type Manager struct {
	app           desktop.App
	callbacks     Callbacks
	statusItem    *fyne.MenuItem
	startItem     *fyne.MenuItem
	stopItem      *fyne.MenuItem
	hideItem      *fyne.MenuItem
	running       bool
	hideRemaining bool
	status        timekeeper.Event
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks, hideRemaining bool) *Manager {
	manager := &Manager{
		app:           app,
		callbacks:     callbacks,
		hideRemaining: hideRemaining,
		status:        timekeeper.Event{Label: model.IdleLabel},
	}

	manager.statusItem = fyne.NewMenuItem("Status: "+model.IdleLabel, nil)
	manager.statusItem.Disabled = true

	var levels []*fyne.MenuItem
	for _, level := range model.Levels() {
		levels = append(levels, fyne.NewMenuItem(level.Title(), func() {
			if manager.callbacks.OnStart != nil {
				manager.callbacks.OnStart(level)
			}
		}))
	}
	manager.startItem = fyne.NewMenuItem("Start", nil)
	manager.startItem.ChildMenu = fyne.NewMenu("", levels...)

	manager.stopItem = fyne.NewMenuItem("Stop", func() {
		if manager.callbacks.OnStop != nil {
			manager.callbacks.OnStop()
		}
	})

	manager.hideItem = fyne.NewMenuItem("Hide countdown", func() {
		manager.hideRemaining = !manager.hideRemaining
		if manager.callbacks.OnHideRemaining != nil {
			manager.callbacks.OnHideRemaining(manager.hideRemaining)
		}
		manager.refresh(time.Now())
	})

	manager.refresh(time.Now())
	return manager
}

// SetRunning switches the running indicator.
func (manager *Manager) SetRunning(running bool) {
	manager.running = running
	manager.refresh(time.Now())
}

// SetStatus stores the latest status event.
func (manager *Manager) SetStatus(event timekeeper.Event, now time.Time) {
	manager.status = event
	manager.refresh(now)
}

// SetHideRemaining hides or shows the countdown.
func (manager *Manager) SetHideRemaining(hide bool) {
	manager.hideRemaining = hide
	manager.refresh(time.Now())
}

// Tick refreshes the countdown.
func (manager *Manager) Tick(now time.Time) {
	if !manager.running || manager.hideRemaining {
		return
	}
	manager.refresh(now)
}

func (manager *Manager) refresh(now time.Time) {
	manager.statusItem.Label = "Status: " + StatusText(manager.status, now, manager.hideRemaining)
	manager.startItem.Disabled = manager.running
	manager.stopItem.Disabled = !manager.running
	manager.hideItem.Checked = manager.hideRemaining

	if manager.app == nil {
		return
	}
	if manager.running {
		manager.app.SetSystemTrayIcon(theme.MediaRecordIcon())
	} else {
		manager.app.SetSystemTrayIcon(theme.MediaStopIcon())
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Random Timer",
		manager.statusItem,
		manager.startItem,
		manager.stopItem,
		manager.hideItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}

// StatusText renders the tray status line.
func StatusText(event timekeeper.Event, now time.Time, hideRemaining bool) string {
	label := event.Label
	if label == "" {
		label = model.IdleLabel
	}
	if hideRemaining || !event.HasNextTransition() {
		return label
	}
	return fmt.Sprintf("%s (%s left)", label, timekeeper.FormatRemaining(event.Remaining(now)))
}
