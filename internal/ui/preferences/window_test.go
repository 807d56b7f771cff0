package preferences

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/require"

	"randomtimer/internal/core/model"
)

func TestLevelFromTitle(t *testing.T) {
	level, ok := levelFromTitle("Medium")
	require.True(t, ok)
	require.Equal(t, model.LevelMedium, level)

	_, ok = levelFromTitle("Extreme")
	require.False(t, ok)
	require.Equal(t, []string{"Easy", "Medium", "Hard"}, levelTitles())
}

func TestSaveCollectsValues(t *testing.T) {
	app := test.NewApp()
	t.Cleanup(app.Quit)

	var saved model.Settings
	prefs := New(app, model.DefaultSettings(), func(settings model.Settings) { saved = settings })
	require.Equal(t, "Easy", prefs.level.Selected)

	prefs.level.SetSelected("Hard")
	prefs.hideRemaining.SetChecked(true)
	prefs.notifications.SetChecked(false)
	prefs.handleSave()

	require.Equal(t, model.Settings{
		DefaultLevel:         model.LevelHard,
		HideRemaining:        true,
		NotificationsEnabled: false,
	}, saved)
}
