package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "balance_reporter"

// Recorder implements port.MetricsRecorder with Prometheus collectors on a private registry.
type Recorder struct {
	registry   *prometheus.Registry
	attempts   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	fallbacks  *prometheus.CounterVec
	unresolved *prometheus.CounterVec
}

// NewRecorder creates and registers the run collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_attempts_total",
			Help:      "Balance fetch attempts by network, protocol and outcome.",
		}, []string{"network", "protocol", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "protocol_attempt_duration_seconds",
			Help:      "Duration of balance fetch attempts.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"network", "protocol"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Accounts for which the primary protocol failed and the fallback was tried.",
		}, []string{"network"}),
		unresolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_accounts_total",
			Help:      "Accounts for which every protocol failed.",
		}, []string{"network"}),
	}
	r.registry.MustRegister(r.attempts, r.duration, r.fallbacks, r.unresolved)
	return r
}

// ObserveAttempt records one protocol attempt.
func (r *Recorder) ObserveAttempt(network, protocol string, err error, elapsed time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	r.attempts.WithLabelValues(network, protocol, outcome).Inc()
	r.duration.WithLabelValues(network, protocol).Observe(elapsed.Seconds())
}

// ObserveFallback records a switch to the fallback protocol.
func (r *Recorder) ObserveFallback(network string) {
	r.fallbacks.WithLabelValues(network).Inc()
}

// ObserveUnresolved records an account dropped from the report.
func (r *Recorder) ObserveUnresolved(network string) {
	r.unresolved.WithLabelValues(network).Inc()
}

// Gatherer exposes the registry, mostly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the collected metrics in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
