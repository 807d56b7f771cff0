package timekeeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"randomtimer/internal/core/model"
	"randomtimer/internal/core/picker"
	"randomtimer/internal/core/scheduler"
)

var (
	// ErrNotificationDenied indicates the notifier cannot show alerts.
	ErrNotificationDenied = errors.New("notifications denied")
	// ErrClosed indicates the TimeKeeper loop has shut down.
	ErrClosed = errors.New("timekeeper closed")
)

// Notifier renders mode alerts and the "timer running" indicator. Its
// methods run on the TimeKeeper loop and must not call back into TimeKeeper.
type Notifier interface {
	// Available returns an error wrapping ErrNotificationDenied when alerts
	// cannot be shown at all.
	Available() error
	ShowRunning() error
	NotifyModeStarted(mode model.Mode) error
	HideRunning()
}

// Options contains collaborators and runtime options for TimeKeeper.
type Options struct {
	Clock    scheduler.Clock
	Picker   Picker
	Notifier Notifier
	Logger   *slog.Logger
	// Unit is the wall duration of one level-table minute.
	Unit time.Duration
}

// TimeKeeper drives the focus/rest state machine. Commands and ticks are
// serialized on one loop; state is only touched from that loop.
type TimeKeeper struct {
	loop      *scheduler.Loop
	scheduler *scheduler.Scheduler
	clock     scheduler.Clock
	picker    Picker
	notifier  Notifier
	logger    *slog.Logger
	unit      time.Duration

	state State

	mu     sync.Mutex
	events []chan Event
	latest Event
	seq    uint64
	closed bool
}

// New creates a TimeKeeper. Run must be called for commands to make progress.
func New(options Options) *TimeKeeper {
	if options.Clock == nil {
		options.Clock = scheduler.SystemClock
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Picker == nil {
		options.Picker = picker.New(nil, options.Logger)
	}
	if options.Notifier == nil {
		options.Notifier = nopNotifier{}
	}
	if options.Unit <= 0 {
		options.Unit = time.Minute
	}

	loop := scheduler.NewLoop(options.Logger)
	return &TimeKeeper{
		loop:      loop,
		scheduler: scheduler.New(loop, options.Clock),
		clock:     options.Clock,
		picker:    options.Picker,
		notifier:  options.Notifier,
		logger:    options.Logger,
		unit:      options.Unit,
		latest:    idleEvent(options.Clock.Now()),
	}
}

// Run processes commands and ticks until ctx is cancelled. Observer channels
// are closed when it returns.
func (keeper *TimeKeeper) Run(ctx context.Context) {
	defer keeper.closeObservers()
	keeper.loop.Run(ctx)
	keeper.scheduler.Cancel()
}

// Subscribe registers a new observer channel. Slow observers miss events.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// Latest returns the most recent status event.
func (keeper *TimeKeeper) Latest() Event {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.latest
}

// Now returns the time on the TimeKeeper's clock.
func (keeper *TimeKeeper) Now() time.Time {
	return keeper.clock.Now()
}

// Start begins a session at level. It fails with ErrInvalidTransition when a
// session is already running and with ErrNotificationDenied when the
// notifier cannot show alerts.
func (keeper *TimeKeeper) Start(level model.DifficultyLevel) error {
	var result error
	if err := keeper.do(func() { result = keeper.start(level) }); err != nil {
		return err
	}
	return result
}

// Stop ends the current session. No tick of that session fires afterwards.
func (keeper *TimeKeeper) Stop() {
	if err := keeper.do(keeper.stop); err != nil {
		keeper.logger.Debug("stop after close", "error", err)
	}
}

// Snapshot returns the current state.
func (keeper *TimeKeeper) Snapshot() State {
	var state State
	_ = keeper.do(func() { state = keeper.state })
	return state
}

func (keeper *TimeKeeper) do(job func()) error {
	done := make(chan struct{})
	if !keeper.loop.Post(func() {
		defer close(done)
		job()
	}) {
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-keeper.loop.Done():
		select {
		case <-done:
			return nil
		default:
			return ErrClosed
		}
	}
}

func (keeper *TimeKeeper) start(level model.DifficultyLevel) error {
	if keeper.state.Running() {
		return fmt.Errorf("start %s: %w", level, ErrInvalidTransition)
	}
	if !level.Valid() {
		keeper.logger.Warn("unknown difficulty, using default", "level", string(level), "default", string(model.DefaultLevel))
		level = model.DefaultLevel
	}

	if err := keeper.guard(keeper.notifier.Available); err != nil {
		return fmt.Errorf("start session: %w", asDenied(err))
	}
	if err := keeper.guard(keeper.notifier.ShowRunning); err != nil {
		return fmt.Errorf("show running indicator: %w", asDenied(err))
	}

	state, transition, err := Begin(keeper.state, level, keeper.clock.Now(), keeper.picker, keeper.unit)
	if err != nil {
		keeper.hideRunning()
		return err
	}
	keeper.state = state
	keeper.logger.Info("session started", "session", transition.SessionID.String(), "level", string(level))
	keeper.apply(transition)
	return nil
}

func (keeper *TimeKeeper) tick(sessionID uuid.UUID) {
	session, ok := keeper.state.Session()
	if !ok {
		keeper.logger.Warn("tick ignored", "error", fmt.Errorf("tick while idle: %w", ErrInvalidTransition))
		return
	}
	if session.ID != sessionID {
		keeper.logger.Debug("stale tick ignored", "session", sessionID.String())
		return
	}

	state, transition, err := Advance(keeper.state, keeper.clock.Now(), keeper.picker, keeper.unit)
	if err != nil {
		keeper.logger.Warn("tick ignored", "error", err)
		return
	}
	keeper.state = state
	keeper.apply(transition)
}

func (keeper *TimeKeeper) stop() {
	keeper.scheduler.Cancel()
	if !keeper.state.Running() {
		return
	}
	session, _ := keeper.state.Session()
	keeper.state = End(keeper.state)
	keeper.hideRunning()
	keeper.emit(idleEvent(keeper.clock.Now()))
	keeper.logger.Info("session stopped", "session", session.ID.String(), "transitions", session.Transitions)
}

// apply performs the side effects of entering a mode: one alert, one status
// event, then re-arming the scheduler.
func (keeper *TimeKeeper) apply(transition Transition) {
	if err := keeper.guard(func() error { return keeper.notifier.NotifyModeStarted(transition.Mode) }); err != nil {
		keeper.logger.Warn("mode notification failed", "mode", string(transition.Mode), "error", err)
	}
	keeper.emit(Event{
		Type:      EventModeStarted,
		SessionID: transition.SessionID,
		Mode:      transition.Mode,
		Level:     transition.Level,
		Label:     transition.Mode.Label(),
		At:        transition.At,
	})
	keeper.emit(Event{
		Type:             EventStatusChanged,
		SessionID:        transition.SessionID,
		Mode:             transition.Mode,
		Level:            transition.Level,
		Label:            transition.Mode.Label(),
		NextTransitionAt: transition.NextTransitionAt,
		At:               transition.At,
	})

	sessionID := transition.SessionID
	keeper.scheduler.Arm(transition.Delay, func() { keeper.tick(sessionID) })
	keeper.logger.Info("mode started",
		"mode", string(transition.Mode),
		"minutes", transition.Minutes,
		"next", transition.NextTransitionAt.Format(time.TimeOnly))
}

func (keeper *TimeKeeper) hideRunning() {
	_ = keeper.guard(func() error {
		keeper.notifier.HideRunning()
		return nil
	})
}

// guard calls a collaborator and converts a panic into an error.
func (keeper *TimeKeeper) guard(call func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("notifier panic: %v", recovered)
		}
	}()
	return call()
}

func (keeper *TimeKeeper) emit(event Event) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.seq++
	event.Seq = keeper.seq
	if event.Type == EventStatusChanged {
		keeper.latest = event
	}
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func (keeper *TimeKeeper) closeObservers() {
	keeper.mu.Lock()
	events := keeper.events
	keeper.events = nil
	keeper.closed = true
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func asDenied(err error) error {
	if errors.Is(err, ErrNotificationDenied) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrNotificationDenied, err)
}

type nopNotifier struct{}

func (nopNotifier) Available() error { return nil }

func (nopNotifier) ShowRunning() error { return nil }

func (nopNotifier) NotifyModeStarted(model.Mode) error { return nil }

func (nopNotifier) HideRunning() {}
