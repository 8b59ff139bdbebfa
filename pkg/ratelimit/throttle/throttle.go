package throttle

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

// Config holds configuration options for creating a new Throttle.
type Config struct {
	// Delay is the window length. Zero closes the window on the next
	// scheduling tick.
	Delay time.Duration

	// Leading invokes on the first call of a window instead of on the
	// window's trailing edge.
	Leading bool

	// OnError receives errors from trailing-edge invocations. If nil, those
	// errors panic on the timer goroutine.
	OnError func(error)

	// Scheduler drives the window timer. If nil, clock.System is used.
	Scheduler clock.Scheduler

	// Logger receives debug events. If nil, nothing is logged.
	Logger *zerolog.Logger
}

type call[A any] struct {
	recv any
	arg  A
}

// Throttle invokes a handler at most once per window.
type Throttle[A, R any] struct {
	fn     ratelimit.Func[A, R]
	config Config
	logger zerolog.Logger

	g        guard.Guard
	window   *runner.Runner
	last     R
	trailing call[A]
}

var _ ratelimit.SuperHandler[int, int] = (*Throttle[int, int])(nil)

// New creates a Throttle around fn. It panics if the configuration is
// invalid; use NewSafe to get an error instead.
func New[A, R any](fn ratelimit.Func[A, R], config Config) *Throttle[A, R] {
	t, err := NewSafe(fn, config)
	if err != nil {
		panic(err)
	}
	return t
}

// NewSafe creates a Throttle around fn with validation that returns an error
// instead of panicking.
func NewSafe[A, R any](fn ratelimit.Func[A, R], config Config) (*Throttle[A, R], error) {
	if fn == nil {
		return nil, errors.NewValidationError("throttle", "fn", nil, "cannot be nil").
			WithHint("provide the handler to throttle")
	}
	if err := validation.ValidateNonNegativeDuration("throttle", "delay", config.Delay); err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = config.Logger.With().Str("component", "throttle").Logger()
	}

	t := &Throttle[A, R]{
		fn:     fn,
		config: config,
		logger: logger,
	}
	t.window = runner.New(config.Scheduler,
		runner.WithLocker(&t.g),
		runner.WithLogger(logger),
		runner.WithName("window"),
	)
	t.window.OnError(t.windowFailed)
	return t, nil
}

// Call feeds an unbound call into the throttle.
func (t *Throttle[A, R]) Call(arg A) (R, error) {
	return t.CallOn(nil, arg)
}

// CallOn feeds a call on recv into the throttle. The result is the value
// produced by a leading invocation, or the cached Last value otherwise. A
// leading invocation that fails returns its error and leaves no window open.
func (t *Throttle[A, R]) CallOn(recv any, arg A) (R, error) {
	t.g.Lock()
	defer t.g.Unlock()

	t.trailing = call[A]{recv: recv, arg: arg}
	if t.window.IsRunning() {
		return t.last, nil
	}

	// The window opens before a leading invocation so that calls arriving
	// while the handler runs are swallowed by it.
	t.window.Run(t.closeWindow, t.config.Delay)
	if !t.config.Leading {
		return t.last, nil
	}
	r, err := t.invoke(recv, arg)
	if err != nil {
		t.window.Cancel()
		return t.last, err
	}
	return r, nil
}

// closeWindow runs on the window's trailing edge with the guard held.
func (t *Throttle[A, R]) closeWindow() error {
	if t.config.Leading {
		return nil
	}
	t.g.Begin(true)
	c := t.trailing
	_, err := t.call(c.recv, c.arg)
	return err
}

// Invoke runs the handler immediately without touching the window.
func (t *Throttle[A, R]) Invoke(arg A) (R, error) {
	return t.InvokeOn(nil, arg)
}

// InvokeOn runs the handler on recv immediately without touching the window.
// It fails with errors.ErrHandlerBusy when the handler is already running,
// including when the handler itself calls InvokeOn.
func (t *Throttle[A, R]) InvokeOn(recv any, arg A) (R, error) {
	t.g.Lock()
	defer t.g.Unlock()
	return t.invoke(recv, arg)
}

// invoke must be called with the guard held.
func (t *Throttle[A, R]) invoke(recv any, arg A) (R, error) {
	if !t.g.Begin(false) {
		return t.last, errors.ErrHandlerBusy
	}
	return t.call(recv, arg)
}

// call runs the handler with the guard released, so the handler may call
// back into the throttle. The invocation slot must already be claimed.
func (t *Throttle[A, R]) call(recv any, arg A) (R, error) {
	var (
		r   R
		err error
	)
	t.g.Unlocked(func() { r, err = t.fn(recv, arg) })
	if err != nil {
		t.logger.Debug().Err(err).Msg("handler failed")
		return t.last, err
	}
	t.last = r
	return r, nil
}

// windowFailed runs with the guard held, either from a timer firing or from
// a Run issued under the guard.
func (t *Throttle[A, R]) windowFailed(err error) {
	t.window.Cancel()
	t.g.Defer(func() {
		if t.config.OnError == nil {
			panic(err)
		}
		t.config.OnError(err)
	})
}

// Cancel closes the current window without a trailing invocation. Last is
// left untouched.
func (t *Throttle[A, R]) Cancel() {
	t.g.Lock()
	defer t.g.Unlock()
	t.window.Cancel()
}

// Last returns the value of the most recent successful invocation.
func (t *Throttle[A, R]) Last() R {
	t.g.Lock()
	defer t.g.Unlock()
	return t.last
}

// Pending reports whether a window is open.
func (t *Throttle[A, R]) Pending() bool {
	return t.window.IsRunning()
}
