package debounce

import (
	"time"

	"github.com/vnykmshr/gobounce/pkg/common/errors"
	"github.com/vnykmshr/gobounce/pkg/metrics"
	"github.com/vnykmshr/gobounce/pkg/ratelimit"
)

// MetricsDebounce wraps a Debounce with Prometheus metrics collection.
type MetricsDebounce[A, R any] struct {
	*Debounce[A, R]
	recorder *metrics.Recorder
}

var _ metrics.Instrumentable = (*MetricsDebounce[int, int])(nil)

// NewWithMetrics creates a Debounce that records calls, invocations, errors,
// cancels and timeout faults under the given name.
func NewWithMetrics[A, R any](fn ratelimit.Func[A, R], config Config, name string, metricsConfig metrics.Config) *MetricsDebounce[A, R] {
	m := &MetricsDebounce[A, R]{
		recorder: metrics.NewRecorder("debounce", name, metricsConfig),
	}

	if fn != nil {
		inner := fn
		fn = func(recv any, arg A) (R, error) {
			start := time.Now()
			r, err := inner(recv, arg)
			m.recorder.Invocation(start, err)
			return r, err
		}
	}

	onTimeout := config.OnTimeout
	config.OnTimeout = func(err error) {
		if errors.IsTimeout(err) {
			m.recorder.Timeout()
		}
		if onTimeout == nil {
			panic(err)
		}
		onTimeout(err)
	}

	m.Debounce = New(fn, config)
	return m
}

// Call feeds an unbound call into the debounce.
func (md *MetricsDebounce[A, R]) Call(arg A) (R, error) {
	return md.CallOn(nil, arg)
}

// CallOn feeds a call on recv into the debounce.
func (md *MetricsDebounce[A, R]) CallOn(recv any, arg A) (R, error) {
	md.recorder.Call()
	return md.Debounce.CallOn(recv, arg)
}

// Cancel drops the pending quiet period.
func (md *MetricsDebounce[A, R]) Cancel() {
	md.recorder.Cancel()
	md.Debounce.Cancel()
}

// EnableMetrics enables metrics collection.
func (md *MetricsDebounce[A, R]) EnableMetrics(config metrics.Config) error {
	return md.recorder.EnableMetrics(config)
}

// DisableMetrics disables metrics collection.
func (md *MetricsDebounce[A, R]) DisableMetrics() {
	md.recorder.DisableMetrics()
}

// MetricsEnabled returns true if metrics are currently enabled.
func (md *MetricsDebounce[A, R]) MetricsEnabled() bool {
	return md.recorder.MetricsEnabled()
}
