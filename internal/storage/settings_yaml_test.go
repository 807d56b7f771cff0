package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"randomtimer/internal/core/model"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettingsFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, model.DefaultSettings(), settings)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", settingsFileName)
	want := model.Settings{
		DefaultLevel:         model.LevelHard,
		HideRemaining:        true,
		NotificationsEnabled: false,
	}
	require.NoError(t, SaveSettingsFile(path, want))

	got, err := LoadSettingsFile(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestInvalidValuesAreIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("default_level: impossible\nhide_remaining: true\n"), 0o644))

	settings, err := LoadSettingsFile(path)
	require.NoError(t, err)
	require.Equal(t, model.DefaultLevel, settings.DefaultLevel)
	require.True(t, settings.HideRemaining)
	require.True(t, settings.NotificationsEnabled)
}

func TestMalformedYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("default_level: [\n"), 0o644))

	settings, err := LoadSettingsFile(path)
	require.Error(t, err)
	require.Equal(t, model.DefaultSettings(), settings)
}
