package model

// Settings defines user preferences that survive restarts.
type Settings struct {
	DefaultLevel         DifficultyLevel
	HideRemaining        bool
	NotificationsEnabled bool
}

// DefaultSettings returns default settings.
func DefaultSettings() Settings {
	return Settings{
		DefaultLevel:         DefaultLevel,
		HideRemaining:        false,
		NotificationsEnabled: true,
	}
}
