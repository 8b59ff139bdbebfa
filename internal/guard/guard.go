// Package guard provides the lock shared by a wrapper and its runners.
package guard

import "sync"

// Guard is a mutex that can queue callbacks while held. Unlock releases the
// mutex first and then runs the queued callbacks in order, so user code
// such as error handlers never runs while the lock is held.
//
// Guard also tracks a single invocation slot. Begin claims it and Unlocked
// runs the claimed work with the mutex released, so the work may re-enter
// the wrapper that owns the Guard.
//
// The zero value is an unlocked Guard.
type Guard struct {
	mu    sync.Mutex
	queue []func()
	busy  bool
	idle  *sync.Cond
}

// Lock acquires the guard.
func (g *Guard) Lock() {
	g.mu.Lock()
}

// Unlock releases the guard and runs every callback queued with Defer since
// it was acquired. A panicking callback prevents the rest from running.
func (g *Guard) Unlock() {
	queued := g.queue
	g.queue = nil
	g.mu.Unlock()

	for _, f := range queued {
		f()
	}
}

// Defer queues f to run after the next Unlock. It must only be called while
// the guard is held.
func (g *Guard) Defer(f func()) {
	g.queue = append(g.queue, f)
}

// Begin claims the invocation slot. It must be called with the guard held.
// When the slot is taken, Begin returns false, unless wait is set, in which
// case it waits for the slot with the guard temporarily released.
func (g *Guard) Begin(wait bool) bool {
	for g.busy {
		if !wait {
			return false
		}
		g.cond().Wait()
	}
	g.busy = true
	return true
}

// Unlocked releases the guard, runs the queued callbacks and then f, and
// reacquires the guard before freeing the slot claimed by Begin. The guard
// is held again when Unlocked returns, even if f panics.
func (g *Guard) Unlocked(f func()) {
	queued := g.queue
	g.queue = nil
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.busy = false
		g.cond().Broadcast()
	}()

	for _, q := range queued {
		q()
	}
	f()
}

// cond must be called with the guard held.
func (g *Guard) cond() *sync.Cond {
	if g.idle == nil {
		g.idle = sync.NewCond(&g.mu)
	}
	return g.idle
}
