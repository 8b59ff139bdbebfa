package clock

import "time"

// Timer is a pending callback created by a Scheduler.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or the timer was already stopped.
	Stop() bool
}

// Scheduler runs a callback after a delay and reports the current time.
// It is the only time source the rest of the library depends on.
type Scheduler interface {
	// AfterFunc schedules f to run once, d from now. A non-positive d
	// fires on the next scheduling tick, never synchronously.
	AfterFunc(d time.Duration, f func()) Timer

	// Now returns the scheduler's notion of the current time.
	Now() time.Time
}

// System implements Scheduler using the wall clock and time.AfterFunc.
// Callbacks run on their own goroutine.
type System struct{}

// AfterFunc schedules f using time.AfterFunc.
func (System) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	return time.AfterFunc(d, f)
}

// Now returns the current system time.
func (System) Now() time.Time {
	return time.Now()
}

// Or returns s, or System when s is nil.
func Or(s Scheduler) Scheduler {
	if s == nil {
		return System{}
	}
	return s
}
