package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace is the namespace used when Config.Namespace is empty.
const DefaultNamespace = "gobounce"

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registry to use. If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Namespace overrides the default "gobounce" namespace for metrics.
	Namespace string

	// Labels are additional labels to add to all metrics.
	Labels prometheus.Labels
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: DefaultNamespace,
		Labels:    nil,
	}
}

// Resolve returns the registry a component configured with c records to.
// Configs equivalent to DefaultConfig share DefaultRegistry, any other
// config gets a fresh Registry.
func (c Config) Resolve() *Registry {
	defaultReg := c.Registry == nil || c.Registry == prometheus.DefaultRegisterer
	defaultNS := c.Namespace == "" || c.Namespace == DefaultNamespace
	if defaultReg && defaultNS && len(c.Labels) == 0 {
		return DefaultRegistry
	}
	return New(c)
}

// Instrumentable is an interface for components that can be instrumented with metrics.
type Instrumentable interface {
	// EnableMetrics enables metrics collection for this component.
	EnableMetrics(config Config) error

	// DisableMetrics disables metrics collection for this component.
	DisableMetrics()

	// MetricsEnabled returns true if metrics are currently enabled.
	MetricsEnabled() bool
}
