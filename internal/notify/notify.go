// Package notify renders timer alerts on the desktop or in a terminal.
package notify

import "randomtimer/internal/core/model"

// RunningText is shown while a session is active.
const RunningText = "Random timer is running"

// Title returns the alert title for a mode start.
func Title(mode model.Mode) string {
	switch mode {
	case model.ModeFocus:
		return "Time to focus"
	case model.ModeRest:
		return "Time to rest"
	}
	return "Random timer"
}
