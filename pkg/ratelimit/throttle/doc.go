/*
Package throttle provides a wrapper that invokes a handler at most once per
window.

The first call opens a window of Config.Delay. Calls that arrive while the
window is open are absorbed, and when it closes the handler runs once with
the arguments of the latest call:

	render := throttle.New(func(_ any, pos int) (int, error) {
		return draw(pos), nil
	}, throttle.Config{Delay: 100 * time.Millisecond})

	for pos := range positions {
		render.Call(pos)
	}

With Config.Leading the handler runs on the first call of a window instead,
and the window only suppresses the calls that follow.

Return Values:

Trailing invocations happen on a timer, so Call returns the value cached
from the most recent successful invocation (see Last). Leading invocations
and Invoke return the value they just produced.

Errors:

Leading invocations and Invoke return handler errors to the caller. Errors
and panics from trailing invocations close the window and go to
Config.OnError, or panic when it is nil.

Use NewWithMetrics to record calls and invocations with Prometheus.
*/
package throttle
