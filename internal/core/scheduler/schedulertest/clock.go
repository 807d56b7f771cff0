// Package schedulertest provides a manually advanced clock.
package schedulertest

import (
	"sort"
	"sync"
	"time"

	"randomtimer/internal/core/scheduler"
)

// Clock is a scheduler.Clock whose time only moves on Advance.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*timer
}

type timer struct {
	clock    *Clock
	deadline time.Time
	callback func()
	stopped  bool
}

var _ scheduler.Clock = (*Clock)(nil)

// NewClock creates a clock starting at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current manual time.
func (clock *Clock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// AfterFunc registers f to run once Advance passes now+d.
func (clock *Clock) AfterFunc(d time.Duration, f func()) scheduler.Timer {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	entry := &timer{clock: clock, deadline: clock.now.Add(d), callback: f}
	clock.timers = append(clock.timers, entry)
	return entry
}

// Advance moves time forward and runs due callbacks on the caller goroutine
// in deadline order.
func (clock *Clock) Advance(d time.Duration) {
	clock.mu.Lock()
	clock.now = clock.now.Add(d)
	now := clock.now
	var due, rest []*timer
	for _, entry := range clock.timers {
		if entry.stopped {
			continue
		}
		if !entry.deadline.After(now) {
			due = append(due, entry)
		} else {
			rest = append(rest, entry)
		}
	}
	clock.timers = rest
	clock.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, entry := range due {
		entry.callback()
	}
}

// Pending returns the number of timers that have not fired or stopped.
func (clock *Clock) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	count := 0
	for _, entry := range clock.timers {
		if !entry.stopped {
			count++
		}
	}
	return count
}

func (entry *timer) Stop() bool {
	entry.clock.mu.Lock()
	defer entry.clock.mu.Unlock()
	if entry.stopped {
		return false
	}
	for _, pending := range entry.clock.timers {
		if pending == entry {
			entry.stopped = true
			return true
		}
	}
	return false
}
