// Package picker chooses randomized mode durations from the level table.
package picker

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"randomtimer/internal/core/model"
)

// Source yields integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Picker returns uniformly distributed minute counts for a level and mode.
type Picker struct {
	mu     sync.Mutex
	source Source
	logger *slog.Logger
}

// New creates a Picker over source. A nil source is seeded from the clock.
func New(source Source, logger *slog.Logger) *Picker {
	if source == nil {
		seed := uint64(time.Now().UnixNano())
		source = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Picker{source: source, logger: logger}
}

// NewSeeded creates a Picker with a deterministic sequence.
func NewSeeded(seed uint64) *Picker {
	return New(rand.New(rand.NewPCG(seed, seed)), nil)
}

// Pick returns a minute count in the inclusive range configured for level
// and mode. Unknown levels fall back to model.DefaultLevel.
func (picker *Picker) Pick(level model.DifficultyLevel, mode model.Mode) int {
	config, ok := level.Config()
	if !ok {
		picker.logger.Warn("unknown difficulty, using default", "level", string(level), "default", string(model.DefaultLevel))
		config, _ = model.DefaultLevel.Config()
	}
	if !mode.Valid() {
		picker.logger.Warn("unknown mode, using focus bounds", "mode", string(mode))
		mode = model.ModeFocus
	}

	minimum, maximum := config.Bounds(mode)
	if maximum <= minimum {
		return minimum
	}

	picker.mu.Lock()
	offset := picker.source.IntN(maximum - minimum + 1)
	picker.mu.Unlock()
	return minimum + offset
}

// Fixed always returns the same minute count for a mode. Modes without an
// entry fall through to Fallback.
type Fixed struct {
	Minutes  map[model.Mode]int
	Fallback interface {
		Pick(model.DifficultyLevel, model.Mode) int
	}
}

// Pick implements the timekeeper picker contract.
func (fixed Fixed) Pick(level model.DifficultyLevel, mode model.Mode) int {
	if minutes, ok := fixed.Minutes[mode]; ok {
		return minutes
	}
	if fixed.Fallback != nil {
		return fixed.Fallback.Pick(level, mode)
	}
	return 0
}
