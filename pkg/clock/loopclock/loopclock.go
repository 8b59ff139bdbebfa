// Package loopclock provides a clock.Scheduler that runs callbacks on a
// go-eventloop event loop, so every callback executes on the loop goroutine.
package loopclock

import (
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-eventloop"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/gobounce/pkg/clock"
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger that reports timers the loop refused.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// Scheduler schedules callbacks with the loop's setTimeout implementation.
// Delays are rounded up to whole milliseconds.
type Scheduler struct {
	js     *eventloop.JS
	logger zerolog.Logger
}

var _ clock.Scheduler = (*Scheduler)(nil)

// New creates a Scheduler on loop. The loop must be running for callbacks
// to fire.
func New(loop *eventloop.Loop, opts ...Option) (*Scheduler, error) {
	js, err := eventloop.NewJS(loop)
	if err != nil {
		return nil, err
	}
	s := &Scheduler{js: js, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Now returns the wall-clock time.
func (s *Scheduler) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f on the loop after d. If the loop refuses the timer,
// for example because it is shutting down, the returned Timer is already
// stopped and f never runs.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) clock.Timer {
	t := &timer{js: s.js}

	id, err := s.js.SetTimeout(func() {
		if t.state.CompareAndSwap(statePending, stateFired) {
			f()
		}
	}, millis(d))
	if err != nil {
		t.state.Store(stateStopped)
		s.logger.Warn().Err(err).Dur("delay", d).Msg("event loop refused timer")
		return t
	}
	t.id = id
	return t
}

func millis(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Millisecond - 1) / time.Millisecond)
}

const (
	statePending int32 = iota
	stateFired
	stateStopped
)

type timer struct {
	js    *eventloop.JS
	id    uint64
	state atomic.Int32
}

func (t *timer) Stop() bool {
	if !t.state.CompareAndSwap(statePending, stateStopped) {
		return false
	}
	// The callback re-checks the state, so a failed clear is harmless.
	_ = t.js.ClearTimeout(t.id)
	return true
}
