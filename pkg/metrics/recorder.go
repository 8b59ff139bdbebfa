package metrics

import (
	"sync/atomic"
	"time"
)

// Recorder records wrapper events for one named component. It can be
// enabled, disabled and pointed at a different registry while the component
// is in use.
type Recorder struct {
	kind     string
	name     string
	enabled  atomic.Bool
	registry atomic.Pointer[Registry]
}

// NewRecorder creates a Recorder for the component kind/name configured by
// config.
func NewRecorder(kind, name string, config Config) *Recorder {
	r := &Recorder{kind: kind, name: name}
	r.registry.Store(config.Resolve())
	r.enabled.Store(config.Enabled)
	return r
}

func (r *Recorder) current() (*Registry, bool) {
	if !r.enabled.Load() {
		return nil, false
	}
	return r.registry.Load(), true
}

// Call records a call fed into the wrapper.
func (r *Recorder) Call() {
	if reg, ok := r.current(); ok {
		reg.WrapperCalls.WithLabelValues(r.kind, r.name).Inc()
	}
}

// Cancel records a Cancel call.
func (r *Recorder) Cancel() {
	if reg, ok := r.current(); ok {
		reg.WrapperCancels.WithLabelValues(r.kind, r.name).Inc()
	}
}

// Invocation records one handler invocation that started at start.
func (r *Recorder) Invocation(start time.Time, err error) {
	reg, ok := r.current()
	if !ok {
		return
	}
	reg.WrapperInvocations.WithLabelValues(r.kind, r.name).Inc()
	reg.WrapperInvocationDuration.WithLabelValues(r.kind, r.name).Observe(time.Since(start).Seconds())
	if err != nil {
		reg.WrapperErrors.WithLabelValues(r.kind, r.name).Inc()
	}
}

// Timeout records a debounce timeout fault.
func (r *Recorder) Timeout() {
	if reg, ok := r.current(); ok {
		reg.DebounceTimeouts.WithLabelValues(r.name).Inc()
	}
}

// Fire records a trigger activation.
func (r *Recorder) Fire(err error) {
	reg, ok := r.current()
	if !ok {
		return
	}
	reg.TriggerFires.WithLabelValues(r.name).Inc()
	if err != nil {
		reg.TriggerErrors.WithLabelValues(r.name).Inc()
	}
}

// EnableMetrics enables metrics collection. A nil config.Registry keeps the
// current registry; a non-nil one must not already hold gobounce metrics.
func (r *Recorder) EnableMetrics(config Config) error {
	if config.Registry != nil {
		r.registry.Store(config.Resolve())
	}
	r.enabled.Store(config.Enabled)
	return nil
}

// DisableMetrics disables metrics collection.
func (r *Recorder) DisableMetrics() {
	r.enabled.Store(false)
}

// MetricsEnabled returns true if metrics are currently enabled.
func (r *Recorder) MetricsEnabled() bool {
	return r.enabled.Load()
}

var _ Instrumentable = (*Recorder)(nil)
