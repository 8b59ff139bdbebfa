package debounce

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/gobounce/internal/guard"
	"github.com/vnykmshr/gobounce/pkg/clock"
	"github.com/vnykmshr/gobounce/pkg/common/errors"
	"github.com/vnykmshr/gobounce/pkg/common/validation"
	"github.com/vnykmshr/gobounce/pkg/ratelimit"
	"github.com/vnykmshr/gobounce/pkg/runner"
)

// Config holds configuration options for creating a new Debounce.
type Config struct {
	// Delay is the quiet period that must follow the last call of a burst.
	Delay time.Duration

	// Leading invokes on the first call of a burst instead of after it
	// settles.
	Leading bool

	// Timeout bounds how long a burst may stay unresolved. Zero disables
	// the watchdog.
	Timeout time.Duration

	// OnTimeout receives the *errors.TimeoutError raised by the watchdog.
	// If nil, the fault panics on the timer goroutine.
	OnTimeout func(error)

	// OnError receives errors from deferred invocations. If nil, those
	// errors panic on the timer goroutine.
	OnError func(error)

	// Scheduler drives both timers. If nil, clock.System is used.
	Scheduler clock.Scheduler

	// Logger receives debug events. If nil, nothing is logged.
	Logger *zerolog.Logger
}

// Debounce invokes a handler only once calls stop arriving for Delay.
type Debounce[A, R any] struct {
	fn     ratelimit.Func[A, R]
	config Config
	logger zerolog.Logger

	g       guard.Guard
	delay   *runner.Runner
	timeout *runner.Runner
	last    R
	faults  int
}

var _ ratelimit.SuperHandler[int, int] = (*Debounce[int, int])(nil)

// New creates a Debounce around fn. It panics if the configuration is
// invalid; use NewSafe to get an error instead.
func New[A, R any](fn ratelimit.Func[A, R], config Config) *Debounce[A, R] {
	d, err := NewSafe(fn, config)
	if err != nil {
		panic(err)
	}
	return d
}

// NewSafe creates a Debounce around fn with validation that returns an error
// instead of panicking.
func NewSafe[A, R any](fn ratelimit.Func[A, R], config Config) (*Debounce[A, R], error) {
	if fn == nil {
		return nil, errors.NewValidationError("debounce", "fn", nil, "cannot be nil").
			WithHint("provide the handler to debounce")
	}
	if err := validation.ValidateNonNegativeDuration("debounce", "delay", config.Delay); err != nil {
		return nil, err
	}
	if config.Timeout < 0 {
		return nil, errors.NewValidationError("debounce", "timeout", config.Timeout, "cannot be negative").
			WithHint("use 0 to disable the timeout")
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = config.Logger.With().Str("component", "debounce").Logger()
	}

	d := &Debounce[A, R]{
		fn:     fn,
		config: config,
		logger: logger,
	}
	d.delay = runner.New(config.Scheduler,
		runner.WithLocker(&d.g),
		runner.WithLogger(logger),
		runner.WithName("delay"),
	)
	d.timeout = runner.New(config.Scheduler,
		runner.WithLocker(&d.g),
		runner.WithLogger(logger),
		runner.WithName("timeout"),
	)
	d.delay.OnError(func(err error) { d.fail(err, d.config.OnError) })
	d.timeout.OnError(func(err error) { d.fail(err, d.config.OnTimeout) })
	return d, nil
}

// Call feeds an unbound call into the debounce.
func (d *Debounce[A, R]) Call(arg A) (R, error) {
	return d.CallOn(nil, arg)
}

// CallOn feeds a call on recv into the debounce and restarts the quiet
// period. Once the watchdog has fired, every call raises the timeout fault
// again on the next scheduling tick instead.
func (d *Debounce[A, R]) CallOn(recv any, arg A) (R, error) {
	d.g.Lock()
	defer d.g.Unlock()

	if d.timeout.RunsCount() > 0 {
		d.faults++
		if !d.timeout.IsRunning() {
			d.timeout.Run(d.raiseTimeout, 0)
		}
		return d.last, nil
	}

	if d.config.Timeout > 0 && !d.timeout.IsRunning() {
		d.timeout.Run(d.raiseTimeout, d.config.Timeout)
	}

	settled := !d.delay.IsRunning()
	d.delay.Cancel()
	d.delay.Run(func() error {
		d.timeout.Cancel()
		if d.config.Leading {
			return nil
		}
		d.g.Begin(true)
		_, err := d.call(recv, arg)
		return err
	}, d.config.Delay)

	if !d.config.Leading || !settled {
		return d.last, nil
	}
	r, err := d.invoke(recv, arg)
	if err != nil {
		d.delay.Cancel()
		return d.last, err
	}
	return r, nil
}

// raiseTimeout runs on the watchdog with the guard held. It raises one fault
// for the expiry itself and one for every call made since the last raise,
// and completes normally so the watchdog run is counted and the fault
// latches.
func (d *Debounce[A, R]) raiseTimeout() error {
	d.delay.Cancel()
	n := max(d.faults, 1)
	d.faults = 0

	d.logger.Warn().Dur("timeout", d.config.Timeout).Int("faults", n).Msg("burst did not settle")
	for range n {
		err := errors.NewTimeoutError("debounce", d.config.Timeout)
		d.g.Defer(func() { dispatch(err, d.config.OnTimeout) })
	}
	return nil
}

func (d *Debounce[A, R]) fail(err error, h func(error)) {
	d.delay.Cancel()
	d.timeout.Cancel()
	d.g.Defer(func() { dispatch(err, h) })
}

func dispatch(err error, h func(error)) {
	if h == nil {
		panic(err)
	}
	h(err)
}

// Invoke stops the watchdog and runs the handler immediately.
func (d *Debounce[A, R]) Invoke(arg A) (R, error) {
	return d.InvokeOn(nil, arg)
}

// InvokeOn stops the watchdog and runs the handler on recv immediately.
// A pending quiet period is left running. It fails with
// errors.ErrHandlerBusy when the handler is already running, including when
// the handler itself calls InvokeOn.
func (d *Debounce[A, R]) InvokeOn(recv any, arg A) (R, error) {
	d.g.Lock()
	defer d.g.Unlock()

	d.timeout.Cancel()
	return d.invoke(recv, arg)
}

// invoke must be called with the guard held.
func (d *Debounce[A, R]) invoke(recv any, arg A) (R, error) {
	if !d.g.Begin(false) {
		return d.last, errors.ErrHandlerBusy
	}
	return d.call(recv, arg)
}

// call runs the handler with the guard released, so the handler may call
// back into the debounce. The invocation slot must already be claimed.
func (d *Debounce[A, R]) call(recv any, arg A) (R, error) {
	var (
		r   R
		err error
	)
	d.g.Unlocked(func() { r, err = d.fn(recv, arg) })
	if err != nil {
		d.logger.Debug().Err(err).Msg("handler failed")
		return d.last, err
	}
	d.last = r
	return r, nil
}

// Cancel drops the pending quiet period. The watchdog and a latched timeout
// fault are not affected.
func (d *Debounce[A, R]) Cancel() {
	d.g.Lock()
	defer d.g.Unlock()
	d.delay.Cancel()
}

// Last returns the value of the most recent successful invocation.
func (d *Debounce[A, R]) Last() R {
	d.g.Lock()
	defer d.g.Unlock()
	return d.last
}

// Pending reports whether a quiet period is running.
func (d *Debounce[A, R]) Pending() bool {
	return d.delay.IsRunning()
}

// Faulted reports whether the watchdog has fired. A faulted Debounce never
// invokes its handler from Call again.
func (d *Debounce[A, R]) Faulted() bool {
	return d.timeout.RunsCount() > 0
}
