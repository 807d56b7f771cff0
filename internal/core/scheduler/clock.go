package scheduler

import "time"

// Timer represents a pending timer that can be stopped.
type Timer interface {
	Stop() bool
}

// Clock provides time-related operations so tests can drive time manually.
// Now must carry a monotonic reading when compared against other instants.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// SystemClock is the default Clock backed by the time package.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemClock) Now() time.Time {
	return time.Now()
}
