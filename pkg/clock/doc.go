/*
Package clock provides the scheduling capability used by runners, throttles
and debounces.

Every time-dependent component in gobounce receives a Scheduler instead of
calling the time package directly. This keeps the wall clock out of the core
and makes timing tests deterministic:

	v := clock.NewVirtual(time.Time{})
	v.AfterFunc(30*time.Millisecond, func() { fmt.Println("fired") })
	v.Advance(35 * time.Millisecond) // prints "fired"

Implementations:

  - System: the wall clock, backed by time.AfterFunc
  - Virtual: simulated time that only moves on Advance
  - loopclock.Scheduler: timers on a go-eventloop event loop

Wait is a small helper that returns a channel closed after a delay, or after
one scheduling tick when the delay is zero.
*/
package clock
