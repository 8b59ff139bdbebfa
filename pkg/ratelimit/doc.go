/*
Package ratelimit provides call rate limiting wrappers for Go handlers.

Two wrappers share the SuperHandler interface:

  - throttle: invoke at most once per window
  - debounce: invoke only after a quiet period, with an optional timeout

Throttle vs Debounce:

Throttle suits event streams where regular progress matters, such as scroll
or resize handling:

	onScroll := throttle.New(render, throttle.Config{Delay: 100 * time.Millisecond})
	onScroll.Call(pos)

Debounce suits bursts where only the final value matters, such as search
boxes:

	search := debounce.New(query, debounce.Config{Delay: 300 * time.Millisecond})
	search.Call(text)

Both wrappers support:
  - Leading-edge invocation
  - Invoke to bypass the wrapper and Cancel to drop deferred work
  - Injected schedulers (see package clock) for deterministic tests
  - Prometheus metrics through NewWithMetrics

Wrapped handlers have the Func shape. A deferred invocation happens on a
timer, so its result is only observable through Last on a later call.

All wrappers are safe for concurrent use and never run their handler
concurrently with itself. The handler runs without the wrapper's lock, so it
may call back into its own wrapper; a synchronous invocation attempted while
the handler is running fails with errors.ErrHandlerBusy.
*/
package ratelimit
