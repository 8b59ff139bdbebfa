package runner

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/gobounce/pkg/clock"
	gferrors "github.com/vnykmshr/gobounce/pkg/common/errors"
)

// Handler is the work a Runner executes. A non-nil error is routed to the
// Runner's error handler.
type Handler func() error

// ErrorHandler receives errors produced by a Runner.
type ErrorHandler func(err error)

// Option configures a Runner.
type Option func(*Runner)

// WithLocker makes every timer firing acquire l before checking whether the
// run is still current. Owners that call Run and Cancel while holding l get
// the guarantee that a cancelled run never executes.
func WithLocker(l sync.Locker) Option {
	return func(r *Runner) {
		r.locker = l
	}
}

// WithLogger sets the logger used for debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithName sets the name attached to log events.
func WithName(name string) Option {
	return func(r *Runner) {
		r.name = name
	}
}

// Runner executes at most one deferred handler at a time.
type Runner struct {
	sched  clock.Scheduler
	locker sync.Locker
	logger zerolog.Logger
	name   string

	mu      sync.Mutex
	timer   clock.Timer
	pending bool
	gen     uint64
	runs    int
	onError ErrorHandler
}

// New creates an idle Runner that schedules on s. A nil scheduler means
// clock.System.
func New(s clock.Scheduler, opts ...Option) *Runner {
	r := &Runner{
		sched:  clock.Or(s),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.name != "" {
		r.logger = r.logger.With().Str("runner", r.name).Logger()
	}
	return r
}

// Run schedules h to execute after delay. A negative delay is treated as
// zero, which still defers h to the next scheduling tick.
//
// If a run is already pending, gferrors.ErrStillRunning is passed to the
// error handler and the request is dropped.
func (r *Runner) Run(h Handler, delay time.Duration) {
	if h == nil {
		panic("runner: nil handler")
	}
	if delay < 0 {
		delay = 0
	}

	r.mu.Lock()
	if r.pending {
		r.mu.Unlock()
		r.handleError(gferrors.ErrStillRunning)
		return
	}
	r.pending = true
	r.gen++
	gen := r.gen
	r.timer = r.sched.AfterFunc(delay, func() { r.fire(gen, h) })
	r.mu.Unlock()

	r.logger.Debug().Dur("delay", delay).Msg("run scheduled")
}

func (r *Runner) fire(gen uint64, h Handler) {
	if r.locker != nil {
		r.locker.Lock()
		defer r.locker.Unlock()
	}

	r.mu.Lock()
	if !r.pending || r.gen != gen {
		r.mu.Unlock()
		r.logger.Debug().Msg("cancelled run dropped")
		return
	}
	r.pending = false
	r.timer = nil
	r.mu.Unlock()

	if err := execute(h); err != nil {
		r.handleError(err)
		return
	}

	r.mu.Lock()
	r.runs++
	r.mu.Unlock()
}

// execute runs h, converting a panic into a *gferrors.PanicError.
func execute(h Handler) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &gferrors.PanicError{Value: v}
		}
	}()
	return h()
}

func (r *Runner) handleError(err error) {
	r.mu.Lock()
	h := r.onError
	r.mu.Unlock()

	r.logger.Debug().Err(err).Msg("run failed")
	if h == nil {
		panic(err)
	}
	h(err)
}

// Cancel stops the pending run, if any. It is a no-op when idle.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.pending {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = nil
	r.pending = false
	r.gen++

	r.logger.Debug().Msg("run cancelled")
}

// OnError replaces the error handler. A nil handler restores the default,
// which panics with the error.
func (r *Runner) OnError(h ErrorHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = h
}

// IsRunning reports whether a run is scheduled and has not yet executed.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// RunsCount returns the number of runs that completed without error.
func (r *Runner) RunsCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// Name returns the name set with WithName.
func (r *Runner) Name() string {
	return r.name
}
