// Package metrics provides Prometheus instrumentation for gobounce components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for gobounce components.
type Registry struct {
	// Wrapper Metrics
	WrapperCalls              *prometheus.CounterVec
	WrapperInvocations        *prometheus.CounterVec
	WrapperErrors             *prometheus.CounterVec
	WrapperCancels            *prometheus.CounterVec
	WrapperInvocationDuration *prometheus.HistogramVec
	DebounceTimeouts          *prometheus.CounterVec

	// Trigger Metrics
	TriggerFires  *prometheus.CounterVec
	TriggerErrors *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by gobounce components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return New(Config{Registry: reg})
}

// New creates a metrics registry from config. The namespace defaults to
// "gobounce" and Labels are attached to every metric as constant labels.
func New(config Config) *Registry {
	reg := config.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := config.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	factory := promauto.With(reg)
	wrapperLabels := []string{"kind", "name"}

	return &Registry{
		// Wrapper Metrics
		WrapperCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "wrapper",
				Name:        "calls_total",
				Help:        "Total number of calls fed into a wrapper",
				ConstLabels: config.Labels,
			},
			wrapperLabels,
		),

		WrapperInvocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "wrapper",
				Name:        "invocations_total",
				Help:        "Total number of wrapped handler invocations",
				ConstLabels: config.Labels,
			},
			wrapperLabels,
		),

		WrapperErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "wrapper",
				Name:        "errors_total",
				Help:        "Total number of wrapped handler invocations that failed",
				ConstLabels: config.Labels,
			},
			wrapperLabels,
		),

		WrapperCancels: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "wrapper",
				Name:        "cancels_total",
				Help:        "Total number of Cancel calls on a wrapper",
				ConstLabels: config.Labels,
			},
			wrapperLabels,
		),

		WrapperInvocationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "wrapper",
				Name:        "invocation_duration_seconds",
				Help:        "Time spent in the wrapped handler",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: config.Labels,
			},
			wrapperLabels,
		),

		DebounceTimeouts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "debounce",
				Name:        "timeouts_total",
				Help:        "Total number of debounce timeout faults raised",
				ConstLabels: config.Labels,
			},
			[]string{"name"},
		),

		// Trigger Metrics
		TriggerFires: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "trigger",
				Name:        "fires_total",
				Help:        "Total number of trigger activations",
				ConstLabels: config.Labels,
			},
			[]string{"name"},
		),

		TriggerErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "trigger",
				Name:        "errors_total",
				Help:        "Total number of trigger activations that failed",
				ConstLabels: config.Labels,
			},
			[]string{"name"},
		),
	}
}
