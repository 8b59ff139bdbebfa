package runner

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vnykmshr/gobounce/internal/testutil"
	"github.com/vnykmshr/gobounce/pkg/clock"
	gferrors "github.com/vnykmshr/gobounce/pkg/common/errors"
)

func newVirtual() *clock.Virtual {
	return clock.NewVirtual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestRunAfterDelay(t *testing.T) {
	v := newVirtual()
	r := New(v)
	calls := 0

	r.Run(func() error {
		calls++
		return nil
	}, 30*time.Millisecond)

	testutil.AssertEqual(t, r.IsRunning(), true)

	v.Advance(29 * time.Millisecond)
	testutil.AssertEqual(t, calls, 0)

	v.Advance(time.Millisecond)
	testutil.AssertEqual(t, calls, 1)
	testutil.AssertEqual(t, r.IsRunning(), false)
	testutil.AssertEqual(t, r.RunsCount(), 1)
}

func TestZeroAndNegativeDelayAreDeferred(t *testing.T) {
	for _, delay := range []time.Duration{0, -time.Second} {
		v := newVirtual()
		r := New(v)
		called := false

		r.Run(func() error {
			called = true
			return nil
		}, delay)

		testutil.AssertEqual(t, called, false)
		v.Advance(0)
		testutil.AssertEqual(t, called, true)
	}
}

func TestCancel(t *testing.T) {
	v := newVirtual()
	r := New(v)
	called := false

	r.Run(func() error {
		called = true
		return nil
	}, 10*time.Millisecond)
	r.Cancel()
	r.Cancel()

	v.Advance(time.Second)
	testutil.AssertEqual(t, called, false)
	testutil.AssertEqual(t, r.IsRunning(), false)
	testutil.AssertEqual(t, r.RunsCount(), 0)
	testutil.AssertEqual(t, v.Pending(), 0)
}

func TestCancelWhenIdle(t *testing.T) {
	r := New(newVirtual())
	r.Cancel()
	testutil.AssertEqual(t, r.IsRunning(), false)
}

func TestRunWhilePending(t *testing.T) {
	v := newVirtual()
	r := New(v)
	var got error
	r.OnError(func(err error) { got = err })

	first, second := 0, 0
	r.Run(func() error { first++; return nil }, 10*time.Millisecond)
	r.Run(func() error { second++; return nil }, 5*time.Millisecond)

	if !errors.Is(got, gferrors.ErrStillRunning) {
		t.Fatalf("error = %v, want ErrStillRunning", got)
	}

	v.Advance(10 * time.Millisecond)
	testutil.AssertEqual(t, first, 1)
	testutil.AssertEqual(t, second, 0)
	testutil.AssertEqual(t, r.RunsCount(), 1)
}

func TestRunWhilePendingPanicsByDefault(t *testing.T) {
	r := New(newVirtual())
	r.Run(func() error { return nil }, time.Millisecond)

	got := testutil.AssertPanics(t, func() {
		r.Run(func() error { return nil }, time.Millisecond)
	})
	if got != gferrors.ErrStillRunning {
		t.Errorf("panic value = %v, want ErrStillRunning", got)
	}
}

func TestCancelThenRun(t *testing.T) {
	v := newVirtual()
	r := New(v)
	var order []string

	r.Run(func() error { order = append(order, "old"); return nil }, 10*time.Millisecond)
	r.Cancel()
	r.Run(func() error { order = append(order, "new"); return nil }, 20*time.Millisecond)

	v.Advance(time.Second)
	testutil.AssertEqual(t, len(order), 1)
	testutil.AssertEqual(t, order[0], "new")
}

func TestHandlerErrorIsRouted(t *testing.T) {
	v := newVirtual()
	r := New(v)
	failure := errors.New("handler failed")
	var got error
	r.OnError(func(err error) { got = err })

	r.Run(func() error { return failure }, 0)
	v.Advance(0)

	if got != failure {
		t.Errorf("error = %v, want %v", got, failure)
	}
	testutil.AssertEqual(t, r.RunsCount(), 0)
	testutil.AssertEqual(t, r.IsRunning(), false)
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	v := newVirtual()
	r := New(v)
	var got error
	r.OnError(func(err error) { got = err })

	r.Run(func() error { panic("boom") }, 0)
	v.Advance(0)

	var pe *gferrors.PanicError
	if !errors.As(got, &pe) {
		t.Fatalf("error = %v, want *PanicError", got)
	}
	testutil.AssertEqual(t, pe.Value, interface{}("boom"))
	testutil.AssertEqual(t, r.RunsCount(), 0)
}

func TestDefaultErrorHandlerPanics(t *testing.T) {
	v := newVirtual()
	r := New(v)
	failure := errors.New("unhandled")

	r.Run(func() error { return failure }, 0)
	got := testutil.AssertPanics(t, func() { v.Advance(0) })
	if got != failure {
		t.Errorf("panic value = %v, want %v", got, failure)
	}
}

func TestOnErrorNilRestoresDefault(t *testing.T) {
	v := newVirtual()
	r := New(v)
	r.OnError(func(error) {})
	r.OnError(nil)

	r.Run(func() error { return errors.New("x") }, 0)
	testutil.AssertPanics(t, func() { v.Advance(0) })
}

func TestOnErrorLastRegistrationWins(t *testing.T) {
	v := newVirtual()
	r := New(v)
	first, second := 0, 0
	r.OnError(func(error) { first++ })
	r.OnError(func(error) { second++ })

	r.Run(func() error { return errors.New("x") }, 0)
	v.Advance(0)

	testutil.AssertEqual(t, first, 0)
	testutil.AssertEqual(t, second, 1)
}

func TestRunFromHandler(t *testing.T) {
	v := newVirtual()
	r := New(v)
	var fired []time.Duration
	start := v.Now()

	var tick Handler
	tick = func() error {
		fired = append(fired, v.Now().Sub(start))
		if len(fired) < 3 {
			r.Run(tick, 10*time.Millisecond)
		}
		return nil
	}
	r.Run(tick, 10*time.Millisecond)

	v.Advance(time.Second)
	testutil.AssertEqual(t, len(fired), 3)
	testutil.AssertEqual(t, fired[2], 30*time.Millisecond)
	testutil.AssertEqual(t, r.RunsCount(), 3)
}

func TestNilHandlerPanics(t *testing.T) {
	r := New(newVirtual())
	testutil.AssertPanics(t, func() { r.Run(nil, 0) })
}

func TestNilSchedulerUsesSystem(t *testing.T) {
	r := New(nil)
	done := make(chan struct{})

	r.Run(func() error {
		close(done)
		return nil
	}, time.Millisecond)

	select {
	case <-done:
	case <-time.After(testutil.TestTimeout):
		t.Fatal("run did not fire")
	}
	testutil.Eventually(t, func() bool { return r.RunsCount() == 1 }, time.Second, time.Millisecond)
}

func TestWithName(t *testing.T) {
	r := New(newVirtual(), WithName("window"))
	testutil.AssertEqual(t, r.Name(), "window")
}

// A firing that is already waiting on the owner's lock must not run once the
// owner cancels it.
func TestLockerPreventsCancelledRun(t *testing.T) {
	var mu sync.Mutex
	r := New(clock.System{}, WithLocker(&mu))
	called := make(chan struct{}, 1)

	mu.Lock()
	r.Run(func() error {
		called <- struct{}{}
		return nil
	}, 0)
	time.Sleep(20 * time.Millisecond)
	r.Cancel()
	mu.Unlock()

	select {
	case <-called:
		t.Fatal("cancelled run executed")
	case <-time.After(50 * time.Millisecond):
	}
	testutil.AssertEqual(t, r.RunsCount(), 0)
}

func TestConcurrentRunAndCancel(t *testing.T) {
	r := New(clock.System{})
	r.OnError(func(error) {})
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Run(func() error { return nil }, time.Millisecond)
		}()
		go func() {
			defer wg.Done()
			r.Cancel()
		}()
	}
	wg.Wait()
	r.Cancel()

	testutil.AssertEqual(t, r.IsRunning(), false)
}
