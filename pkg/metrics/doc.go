// Package metrics provides Prometheus instrumentation for gobounce components.
//
// # Overview
//
// The metrics package provides instrumentation for:
//   - Throttle and debounce wrappers (calls, invocations, errors, cancels, handler time)
//   - Debounce timeout faults
//   - Scheduling triggers (activations and failures)
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	// Throttle with metrics
//	onScroll := throttle.NewWithMetrics(render, throttle.Config{Delay: 100 * time.Millisecond}, "scroll", metrics.DefaultConfig())
//
//	// Debounce with metrics
//	search := debounce.NewWithMetrics(query, debounce.Config{Delay: 300 * time.Millisecond}, "search", metrics.DefaultConfig())
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
// # Available Metrics
//
// ## Wrapper Metrics
//
// All wrapper metrics carry the labels kind ("throttle" or "debounce") and name.
//
//   - gobounce_wrapper_calls_total: Total number of calls fed into a wrapper
//   - gobounce_wrapper_invocations_total: Total number of wrapped handler invocations
//   - gobounce_wrapper_errors_total: Total number of failed invocations
//   - gobounce_wrapper_cancels_total: Total number of Cancel calls
//   - gobounce_wrapper_invocation_duration_seconds: Time spent in the wrapped handler
//   - gobounce_debounce_timeouts_total: Total number of debounce timeout faults
//
// ## Trigger Metrics
//
//   - gobounce_trigger_fires_total: Total number of trigger activations
//   - gobounce_trigger_errors_total: Total number of failed activations
package metrics
