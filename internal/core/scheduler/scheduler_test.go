package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"randomtimer/internal/core/scheduler"
	"randomtimer/internal/core/scheduler/schedulertest"
)

func newTestScheduler() (*scheduler.Scheduler, *scheduler.Loop, *schedulertest.Clock) {
	loop := scheduler.NewLoop(nil)
	clock := schedulertest.NewClock(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	return scheduler.New(loop, clock), loop, clock
}

func TestArmFiresOnceAfterDelay(t *testing.T) {
	sched, loop, clock := newTestScheduler()
	fired := 0
	sched.Arm(5*time.Minute, func() { fired++ })

	clock.Advance(4 * time.Minute)
	loop.Drain()
	require.Equal(t, 0, fired)
	require.True(t, sched.Pending())

	clock.Advance(time.Minute)
	loop.Drain()
	require.Equal(t, 1, fired)
	require.False(t, sched.Pending())

	clock.Advance(time.Hour)
	loop.Drain()
	require.Equal(t, 1, fired)
}

func TestArmTwiceKeepsLastCallback(t *testing.T) {
	sched, loop, clock := newTestScheduler()
	var fired []string
	sched.Arm(time.Minute, func() { fired = append(fired, "first") })
	sched.Arm(time.Minute, func() { fired = append(fired, "second") })

	clock.Advance(time.Minute)
	loop.Drain()
	require.Equal(t, []string{"second"}, fired)
	require.Equal(t, 0, clock.Pending())
}

func TestRearmAfterTimerAlreadyPosted(t *testing.T) {
	sched, loop, clock := newTestScheduler()
	var fired []string
	sched.Arm(time.Minute, func() { fired = append(fired, "stale") })

	// The timer goroutine has posted, but the loop has not run it yet.
	clock.Advance(time.Minute)
	sched.Arm(2*time.Minute, func() { fired = append(fired, "fresh") })
	loop.Drain()
	require.Empty(t, fired)

	clock.Advance(2 * time.Minute)
	loop.Drain()
	require.Equal(t, []string{"fresh"}, fired)
}

func TestCancel(t *testing.T) {
	sched, loop, clock := newTestScheduler()
	sched.Cancel()

	fired := false
	sched.Arm(time.Minute, func() { fired = true })
	sched.Cancel()
	sched.Cancel()

	clock.Advance(time.Hour)
	loop.Drain()
	require.False(t, fired)
	require.False(t, sched.Pending())
}

func TestZeroDelayRunsOnNextTurn(t *testing.T) {
	sched, loop, _ := newTestScheduler()
	count := 0
	var rearm func()
	rearm = func() {
		count++
		if count < 1000 {
			sched.Arm(0, rearm)
		}
	}

	sched.Arm(0, rearm)
	require.Equal(t, 0, count, "zero delay must not run synchronously")

	loop.Drain()
	require.Equal(t, 1000, count)
}

func TestLoopRunsJobsInOrder(t *testing.T) {
	loop := scheduler.NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	results := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		value := i
		require.True(t, loop.Post(func() { results <- value }))
	}
	require.Equal(t, 1, <-results)
	require.Equal(t, 2, <-results)
	require.Equal(t, 3, <-results)

	cancel()
	<-loop.Done()
	require.False(t, loop.Post(func() {}))
}

func TestLoopSurvivesPanickingJob(t *testing.T) {
	loop := scheduler.NewLoop(nil)
	ran := false
	loop.Post(func() { panic("boom") })
	loop.Post(func() { ran = true })
	loop.Drain()
	require.True(t, ran)
}
