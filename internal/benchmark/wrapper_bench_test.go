package benchmark

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/gobounce/pkg/clock"
	"github.com/vnykmshr/gobounce/pkg/metrics"
	"github.com/vnykmshr/gobounce/pkg/ratelimit/debounce"
	"github.com/vnykmshr/gobounce/pkg/ratelimit/throttle"
)

func identity(_ any, n int) (int, error) { return n, nil }

func leadingLabel(leading bool) string {
	return fmt.Sprintf("leading=%t", leading)
}

// BenchmarkThrottleCall measures calls landing inside an open window.
func BenchmarkThrottleCall(b *testing.B) {
	for _, leading := range []bool{false, true} {
		b.Run(leadingLabel(leading), func(b *testing.B) {
			v := clock.NewVirtual(time.Time{})
			th := throttle.New(identity, throttle.Config{
				Delay:     time.Hour,
				Leading:   leading,
				Scheduler: v,
			})

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = th.Call(i)
			}
		})
	}
}

// BenchmarkThrottleWindows measures one window per iteration.
func BenchmarkThrottleWindows(b *testing.B) {
	v := clock.NewVirtual(time.Time{})
	var invoked atomic.Int64
	th := throttle.New(func(_ any, n int) (int, error) {
		invoked.Add(1)
		return n, nil
	}, throttle.Config{Delay: time.Millisecond, Scheduler: v})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = th.Call(i)
		v.Advance(time.Millisecond)
	}
	if got := invoked.Load(); got != int64(b.N) {
		b.Fatalf("invoked %d times, want %d", got, b.N)
	}
}

// BenchmarkDebounceCall measures restarting the quiet period.
func BenchmarkDebounceCall(b *testing.B) {
	for _, timeout := range []time.Duration{0, time.Hour} {
		b.Run(fmt.Sprintf("timeout=%v", timeout), func(b *testing.B) {
			v := clock.NewVirtual(time.Time{})
			d := debounce.New(identity, debounce.Config{
				Delay:     time.Minute,
				Timeout:   timeout,
				Scheduler: v,
				OnTimeout: func(error) {},
			})

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = d.Call(i)
			}
		})
	}
}

// BenchmarkDebounceCallParallel measures contention on the wrapper guard.
func BenchmarkDebounceCallParallel(b *testing.B) {
	d := debounce.New(identity, debounce.Config{Delay: time.Hour})
	defer d.Cancel()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = d.Call(i)
			i++
		}
	})
}

// BenchmarkMetricsOverhead compares a plain throttle with an instrumented one.
func BenchmarkMetricsOverhead(b *testing.B) {
	b.Run("plain", func(b *testing.B) {
		v := clock.NewVirtual(time.Time{})
		th := throttle.New(identity, throttle.Config{Delay: time.Hour, Leading: true, Scheduler: v})

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = th.Call(i)
		}
	})

	b.Run("instrumented", func(b *testing.B) {
		v := clock.NewVirtual(time.Time{})
		th := throttle.NewWithMetrics(identity,
			throttle.Config{Delay: time.Hour, Leading: true, Scheduler: v},
			"bench", metrics.Config{Enabled: true, Registry: prometheus.NewRegistry()})

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = th.Call(i)
		}
	})
}
