package throttle

import (
	"time"

	"github.com/vnykmshr/gobounce/pkg/metrics"
	"github.com/vnykmshr/gobounce/pkg/ratelimit"
)

// MetricsThrottle wraps a Throttle with Prometheus metrics collection.
type MetricsThrottle[A, R any] struct {
	*Throttle[A, R]
	recorder *metrics.Recorder
}

var _ metrics.Instrumentable = (*MetricsThrottle[int, int])(nil)

// NewWithMetrics creates a Throttle that records calls, invocations, errors
// and cancels under the given name. Invocations are counted on both the
// leading and the trailing edge.
func NewWithMetrics[A, R any](fn ratelimit.Func[A, R], config Config, name string, metricsConfig metrics.Config) *MetricsThrottle[A, R] {
	m := &MetricsThrottle[A, R]{
		recorder: metrics.NewRecorder("throttle", name, metricsConfig),
	}
	m.Throttle = New(instrument(fn, m.recorder), config)
	return m
}

func instrument[A, R any](fn ratelimit.Func[A, R], rec *metrics.Recorder) ratelimit.Func[A, R] {
	if fn == nil {
		return nil
	}
	return func(recv any, arg A) (R, error) {
		start := time.Now()
		r, err := fn(recv, arg)
		rec.Invocation(start, err)
		return r, err
	}
}

// Call feeds an unbound call into the throttle.
func (mt *MetricsThrottle[A, R]) Call(arg A) (R, error) {
	return mt.CallOn(nil, arg)
}

// CallOn feeds a call on recv into the throttle.
func (mt *MetricsThrottle[A, R]) CallOn(recv any, arg A) (R, error) {
	mt.recorder.Call()
	return mt.Throttle.CallOn(recv, arg)
}

// Cancel closes the current window without a trailing invocation.
func (mt *MetricsThrottle[A, R]) Cancel() {
	mt.recorder.Cancel()
	mt.Throttle.Cancel()
}

// EnableMetrics enables metrics collection.
func (mt *MetricsThrottle[A, R]) EnableMetrics(config metrics.Config) error {
	return mt.recorder.EnableMetrics(config)
}

// DisableMetrics disables metrics collection.
func (mt *MetricsThrottle[A, R]) DisableMetrics() {
	mt.recorder.DisableMetrics()
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mt *MetricsThrottle[A, R]) MetricsEnabled() bool {
	return mt.recorder.MetricsEnabled()
}
