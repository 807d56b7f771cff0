package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"randomtimer/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      model.Settings
	onSave        func(model.Settings)
	level         *widget.RadioGroup
	hideRemaining *widget.Check
	notifications *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("Random Timer Settings")

	level := widget.NewRadioGroup(levelTitles(), nil)
	level.Required = true
	level.SetSelected(settings.DefaultLevel.Title())

	hideRemaining := widget.NewCheck("Hide countdown", nil)
	hideRemaining.SetChecked(settings.HideRemaining)

	notifications := widget.NewCheck("Show notifications", nil)
	notifications.SetChecked(settings.NotificationsEnabled)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Default difficulty", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		level,
		hideRemaining,
		notifications,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(320, 240))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:        window,
		settings:      settings,
		onSave:        onSave,
		level:         level,
		hideRemaining: hideRemaining,
		notifications: notifications,
	}
	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.level.SetSelected(settings.DefaultLevel.Title())
	prefs.hideRemaining.SetChecked(settings.HideRemaining)
	prefs.notifications.SetChecked(settings.NotificationsEnabled)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings
	if level, ok := levelFromTitle(prefs.level.Selected); ok {
		settings.DefaultLevel = level
	}
	settings.HideRemaining = prefs.hideRemaining.Checked
	settings.NotificationsEnabled = prefs.notifications.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func levelTitles() []string {
	var titles []string
	for _, level := range model.Levels() {
		titles = append(titles, level.Title())
	}
	return titles
}

func levelFromTitle(title string) (model.DifficultyLevel, bool) {
	for _, level := range model.Levels() {
		if level.Title() == title {
			return level, true
		}
	}
	return "", false
}
