/*
Package gobounce provides a Go library for rate limiting handler calls with
throttle and debounce wrappers built on a single deferred-execution Runner.

Rate Limiting (pkg/ratelimit):
  - throttle: Invoke at most once per window
  - debounce: Invoke after a quiet period, with an optional timeout

Execution (pkg/runner, pkg/clock):
  - runner: At most one deferred handler at a time
  - clock: System, virtual and event-loop schedulers

Scheduling (pkg/scheduling):
  - scheduler: Cron and interval triggers

Example usage:

	import (
		"github.com/vnykmshr/gobounce/pkg/ratelimit/debounce"
		"github.com/vnykmshr/gobounce/pkg/ratelimit/throttle"
	)

	search := debounce.New(query, debounce.Config{Delay: 300 * time.Millisecond})
	onScroll := throttle.New(render, throttle.Config{Delay: 100 * time.Millisecond})

	search.Call(text)
	onScroll.Call(offset)
*/
package gobounce
