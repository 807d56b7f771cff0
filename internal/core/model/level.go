package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownDifficulty indicates a difficulty name outside the level table.
var ErrUnknownDifficulty = errors.New("unknown difficulty level")

// DifficultyLevel selects the randomized duration ranges for a session.
type DifficultyLevel string

const (
	LevelEasy   DifficultyLevel = "easy"
	LevelMedium DifficultyLevel = "medium"
	LevelHard   DifficultyLevel = "hard"
)

// DefaultLevel is used when no level, or an unknown one, is supplied.
const DefaultLevel = LevelEasy

// Mode is one of the two alternating phases.
type Mode string

const (
	ModeFocus Mode = "focus"
	ModeRest  Mode = "rest"
)

// LevelConfig holds inclusive minute bounds for both modes.
type LevelConfig struct {
	FocusMin int
	FocusMax int
	RestMin  int
	RestMax  int
}

var levels = map[DifficultyLevel]LevelConfig{
	LevelEasy:   {FocusMin: 20, FocusMax: 40, RestMin: 0, RestMax: 10},
	LevelMedium: {FocusMin: 35, FocusMax: 60, RestMin: 0, RestMax: 15},
	LevelHard:   {FocusMin: 50, FocusMax: 90, RestMin: 0, RestMax: 20},
}

// Levels returns the known levels in ascending difficulty.
func Levels() []DifficultyLevel {
	return []DifficultyLevel{LevelEasy, LevelMedium, LevelHard}
}

// ParseDifficulty resolves a case-insensitive level name.
func ParseDifficulty(name string) (DifficultyLevel, error) {
	level := DifficultyLevel(strings.ToLower(strings.TrimSpace(name)))
	if !level.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
	}
	return level, nil
}

// Valid reports whether the level has an entry in the level table.
func (level DifficultyLevel) Valid() bool {
	_, ok := levels[level]
	return ok
}

// Config returns the bounds for the level.
func (level DifficultyLevel) Config() (LevelConfig, bool) {
	config, ok := levels[level]
	return config, ok
}

// Title returns the display name of the level.
func (level DifficultyLevel) Title() string {
	switch level {
	case LevelEasy:
		return "Easy"
	case LevelMedium:
		return "Medium"
	case LevelHard:
		return "Hard"
	}
	return string(level)
}

// Bounds returns the [min, max] pair for the mode.
func (config LevelConfig) Bounds(mode Mode) (int, int) {
	if mode == ModeRest {
		return config.RestMin, config.RestMax
	}
	return config.FocusMin, config.FocusMax
}

// Valid reports whether the mode is FOCUS or REST.
func (mode Mode) Valid() bool {
	return mode == ModeFocus || mode == ModeRest
}

// Next returns the opposite mode.
func (mode Mode) Next() Mode {
	if mode == ModeFocus {
		return ModeRest
	}
	return ModeFocus
}

// Label is the status text shown while the mode is active.
func (mode Mode) Label() string {
	switch mode {
	case ModeFocus:
		return "Focus"
	case ModeRest:
		return "Rest"
	}
	return IdleLabel
}

// IdleLabel is the status text when no session runs.
const IdleLabel = "Idle"

// Minutes converts a picked duration into wall time using unit as one minute.
func Minutes(count int, unit time.Duration) time.Duration {
	if unit <= 0 {
		unit = time.Minute
	}
	return time.Duration(count) * unit
}
