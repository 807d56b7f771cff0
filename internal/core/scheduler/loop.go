package scheduler

import (
	"context"
	"log/slog"
	"sync"
)

// Loop is a single serialized execution context. Jobs run one at a time, in
// posting order, on the goroutine that calls Run.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	done   chan struct{}
	closed bool
	logger *slog.Logger
}

// NewLoop creates an idle loop.
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Post enqueues job. It never blocks and is safe to call from inside a job.
// It reports false once the loop is closed.
func (loop *Loop) Post(job func()) bool {
	loop.mu.Lock()
	if loop.closed {
		loop.mu.Unlock()
		return false
	}
	loop.queue = append(loop.queue, job)
	loop.mu.Unlock()

	select {
	case loop.wake <- struct{}{}:
	default:
	}
	return true
}

// Run executes posted jobs until ctx is cancelled or Close is called.
func (loop *Loop) Run(ctx context.Context) {
	defer loop.Close()
	for {
		loop.drain()
		select {
		case <-ctx.Done():
			return
		case <-loop.done:
			return
		case <-loop.wake:
		}
	}
}

// Close stops accepting jobs and ends Run. Queued jobs are dropped.
func (loop *Loop) Close() {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	if loop.closed {
		return
	}
	loop.closed = true
	loop.queue = nil
	close(loop.done)
}

// Done is closed once the loop stops.
func (loop *Loop) Done() <-chan struct{} {
	return loop.done
}

func (loop *Loop) drain() {
	for {
		loop.mu.Lock()
		if loop.closed || len(loop.queue) == 0 {
			loop.mu.Unlock()
			return
		}
		job := loop.queue[0]
		loop.queue[0] = nil
		loop.queue = loop.queue[1:]
		loop.mu.Unlock()

		loop.runJob(job)
	}
}

func (loop *Loop) runJob(job func()) {
	defer func() {
		if recovered := recover(); recovered != nil {
			loop.logger.Error("loop job panicked", "panic", recovered)
		}
	}()
	job()
}
