/*
Package debounce provides a wrapper that invokes a handler once a burst of
calls settles.

Every call restarts a quiet period of Config.Delay. When no call arrives for
that long, the handler runs once with the arguments of the final call:

	search := debounce.New(func(_ any, q string) ([]Result, error) {
		return index.Query(q)
	}, debounce.Config{Delay: 300 * time.Millisecond})

	for q := range keystrokes {
		search.Call(q)
	}

With Config.Leading the handler runs on the first call of a burst and the
rest of the burst is absorbed.

Timeouts:

A burst that never settles would never invoke the handler. Config.Timeout
starts a watchdog on the first call of a burst; if the quiet period has not
elapsed by then, the watchdog cancels it and passes an *errors.TimeoutError
to Config.OnTimeout. The fault is latched: from then on every call re-raises
it instead of scheduling work, and Faulted reports true. Invoke stops the
watchdog of the current burst.

Errors returned or panics raised by deferred invocations cancel both timers
and go to Config.OnError. Leading invocations and Invoke return handler
errors to the caller. With no callback configured, the error panics.
*/
package debounce
