package scheduler

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/gobounce/pkg/clock"
	"github.com/vnykmshr/gobounce/pkg/common/errors"
	"github.com/vnykmshr/gobounce/pkg/metrics"
	"github.com/vnykmshr/gobounce/pkg/runner"
)

// ErrAlreadyRunning is returned by Start on a started trigger.
var ErrAlreadyRunning = stderrors.New("trigger already running")

// FireFunc is called at every activation with the activation time.
type FireFunc func(ctx context.Context, at time.Time) error

// Config holds trigger configuration.
type Config struct {
	// Name identifies the trigger in logs and metrics.
	Name string

	// Fire is called at every activation. Required.
	Fire FireFunc

	// OnError receives errors returned by Fire and panics raised in it. If
	// nil, errors are logged and the trigger keeps running.
	OnError func(error)

	// MaxRuns stops the trigger after this many activations (0 = unlimited).
	MaxRuns int

	// Location is the time zone schedules are evaluated in. Defaults to UTC.
	Location *time.Location

	// Scheduler drives activations. If nil, clock.System is used.
	Scheduler clock.Scheduler

	// Logger receives lifecycle and error events. If nil, nothing is logged.
	Logger *zerolog.Logger

	// Metrics enables activation counters when Metrics.Enabled is set.
	Metrics metrics.Config
}

// Trigger calls Config.Fire at every activation of a cron.Schedule. Each
// activation is one Runner run that arms the next one from inside its
// handler, so activations never overlap.
type Trigger struct {
	schedule cron.Schedule
	config   Config
	sched    clock.Scheduler
	logger   zerolog.Logger
	recorder *metrics.Recorder
	runner   *runner.Runner

	mu       sync.Mutex
	running  bool
	next     time.Time
	fired    int
	ctx      context.Context
	cancel   context.CancelFunc
	stopCtx  func() bool
	inflight sync.WaitGroup
}

// New creates a trigger for an arbitrary cron.Schedule.
func New(schedule cron.Schedule, config Config) (*Trigger, error) {
	if schedule == nil {
		return nil, errors.NewValidationError("scheduler", "schedule", nil, "cannot be nil")
	}
	if config.Fire == nil {
		return nil, errors.NewValidationError("scheduler", "fire", nil, "cannot be nil").
			WithHint("set Config.Fire to the function to call at each activation")
	}
	if config.MaxRuns < 0 {
		return nil, errors.NewValidationError("scheduler", "maxRuns", config.MaxRuns, "cannot be negative").
			WithHint("use 0 for unlimited activations")
	}
	if config.Location == nil {
		config.Location = time.UTC
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}
	if config.Name != "" {
		logger = logger.With().Str("trigger", config.Name).Logger()
	}

	t := &Trigger{
		schedule: schedule,
		config:   config,
		sched:    clock.Or(config.Scheduler),
		logger:   logger,
		recorder: metrics.NewRecorder("trigger", config.Name, config.Metrics),
	}
	t.runner = runner.New(t.sched, runner.WithLogger(logger), runner.WithName("trigger"))
	t.runner.OnError(t.recover)
	return t, nil
}

// Start arms the first activation. The trigger stops by itself when ctx is
// done; ctx is also passed to Fire.
func (t *Trigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return errors.NewOperationError("scheduler", "start", ErrAlreadyRunning).
			WithContext("call Stop() first")
	}
	if err := ctx.Err(); err != nil {
		return errors.NewOperationError("scheduler", "start", err)
	}

	t.running = true
	t.fired = 0
	t.ctx, t.cancel = context.WithCancel(ctx)
	t.stopCtx = context.AfterFunc(t.ctx, func() { t.Stop() })
	t.arm()

	t.logger.Debug().Time("next", t.next).Msg("trigger started")
	return nil
}

// arm schedules the next activation. Must be called with t.mu held.
func (t *Trigger) arm() {
	now := t.sched.Now().In(t.config.Location)
	t.next = t.schedule.Next(now)
	if t.next.IsZero() {
		// The schedule has no further activations.
		t.stopLocked()
		return
	}
	t.runner.Run(t.activate, t.next.Sub(now))
}

func (t *Trigger) activate() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	at := t.next
	ctx := t.ctx
	t.fired++
	t.inflight.Add(1)
	t.mu.Unlock()
	defer t.inflight.Done()

	err := t.config.Fire(ctx, at)
	t.recorder.Fire(err)
	if err != nil {
		t.handleError(err)
	}

	t.rearm()
	return nil
}

// recover handles panics raised by Fire.
func (t *Trigger) recover(err error) {
	t.recorder.Fire(err)
	t.handleError(err)
	t.rearm()
}

func (t *Trigger) rearm() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	if t.config.MaxRuns > 0 && t.fired >= t.config.MaxRuns {
		t.logger.Debug().Int("fired", t.fired).Msg("max runs reached")
		t.stopLocked()
		return
	}
	t.arm()
}

func (t *Trigger) handleError(err error) {
	if t.config.OnError != nil {
		t.config.OnError(err)
		return
	}
	t.logger.Error().Err(err).Msg("activation failed")
}

// Stop cancels the next activation. The returned channel is closed once an
// activation that is already running has returned.
func (t *Trigger) Stop() <-chan struct{} {
	t.mu.Lock()
	t.stopLocked()
	t.mu.Unlock()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		t.inflight.Wait()
	}()
	return stopped
}

func (t *Trigger) stopLocked() {
	if !t.running {
		return
	}
	t.running = false
	t.next = time.Time{}
	t.runner.Cancel()
	t.stopCtx()
	t.cancel()
	t.logger.Debug().Int("fired", t.fired).Msg("trigger stopped")
}

// Next returns the time of the next activation, or the zero time when the
// trigger is stopped.
func (t *Trigger) Next() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.next
}

// Fired returns the number of activations since the last Start.
func (t *Trigger) Fired() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

// Running reports whether the trigger is started.
func (t *Trigger) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
