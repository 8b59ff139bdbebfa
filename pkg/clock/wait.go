package clock

import "time"

// Wait returns a channel that is closed once d has elapsed on s. A
// non-positive d waits for a single scheduling tick.
func Wait(s Scheduler, d time.Duration) <-chan struct{} {
	done := make(chan struct{})
	Or(s).AfterFunc(d, func() {
		close(done)
	})
	return done
}
