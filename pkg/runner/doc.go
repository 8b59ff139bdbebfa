/*
Package runner provides a cancelable deferred execution primitive.

A Runner holds at most one scheduled handler. Run schedules it after a delay,
Cancel withdraws it, and the Runner counts every run that completes without
error:

	r := runner.New(clock.System{})
	r.OnError(func(err error) { log.Println(err) })
	r.Run(func() error {
		return flush()
	}, 100*time.Millisecond)

Calling Run while a run is pending does not replace it. The error handler
receives errors.ErrStillRunning instead, so callers that want to restart the
delay call Cancel first.

Errors returned by the handler and panics inside it (as *errors.PanicError)
go to the error handler and are not counted as completed runs. The default
error handler panics.

A Runner is safe for concurrent use. Owners that guard their own state with a
lock should pass it with WithLocker so that timer firings and Cancel are
serialized with the owner's calls.
*/
package runner
