// Package scheduler owns the single execution context and the single
// outstanding delayed callback of a timer session.
package scheduler

import (
	"sync"
	"time"
)

// Poster accepts jobs for the execution context.
type Poster interface {
	Post(job func()) bool
}

// Scheduler keeps at most one armed callback. Callbacks always run through
// the Poster, never on the timer goroutine.
type Scheduler struct {
	mu      sync.Mutex
	poster  Poster
	clock   Clock
	pending *armed
}

type armed struct {
	timer    Timer
	callback func()
}

// New creates a Scheduler posting fired callbacks to poster.
func New(poster Poster, clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	return &Scheduler{poster: poster, clock: clock}
}

// Arm schedules callback after delay, replacing any armed callback. A delay
// of zero or less posts the callback for the next loop turn instead of
// running it synchronously.
func (scheduler *Scheduler) Arm(delay time.Duration, callback func()) {
	entry := &armed{callback: callback}

	scheduler.mu.Lock()
	scheduler.cancelLocked()
	scheduler.pending = entry
	if delay <= 0 {
		scheduler.mu.Unlock()
		scheduler.poster.Post(func() { scheduler.fire(entry) })
		return
	}
	entry.timer = scheduler.clock.AfterFunc(delay, func() {
		scheduler.poster.Post(func() { scheduler.fire(entry) })
	})
	scheduler.mu.Unlock()
}

// Cancel drops the armed callback. It is a no-op when nothing is armed.
func (scheduler *Scheduler) Cancel() {
	scheduler.mu.Lock()
	scheduler.cancelLocked()
	scheduler.mu.Unlock()
}

// Pending reports whether a callback is armed and has not fired.
func (scheduler *Scheduler) Pending() bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.pending != nil
}

func (scheduler *Scheduler) cancelLocked() {
	if scheduler.pending == nil {
		return
	}
	if scheduler.pending.timer != nil {
		scheduler.pending.timer.Stop()
	}
	scheduler.pending = nil
}

// fire runs on the execution context. A fired timer whose entry was replaced
// or cancelled in the meantime is discarded here.
func (scheduler *Scheduler) fire(entry *armed) {
	scheduler.mu.Lock()
	if scheduler.pending != entry {
		scheduler.mu.Unlock()
		return
	}
	scheduler.pending = nil
	scheduler.mu.Unlock()

	entry.callback()
}
