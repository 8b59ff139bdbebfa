package ratelimit

// Func is a handler that can be wrapped by a throttle or debounce. recv is
// the receiver the call was made on, or nil for unbound calls.
type Func[A, R any] func(recv any, arg A) (R, error)

// SuperHandler is the common surface of a wrapped handler.
type SuperHandler[A, R any] interface {
	// Call feeds an unbound call into the wrapper and returns the value
	// the caller should observe.
	Call(arg A) (R, error)

	// CallOn is Call with an explicit receiver.
	CallOn(recv any, arg A) (R, error)

	// Invoke runs the handler immediately and caches its result.
	Invoke(arg A) (R, error)

	// InvokeOn is Invoke with an explicit receiver.
	InvokeOn(recv any, arg A) (R, error)

	// Cancel withdraws any deferred invocation.
	Cancel()

	// Last returns the value of the most recent successful invocation.
	Last() R

	// Pending reports whether a deferred invocation is scheduled.
	Pending() bool
}
