package port

import "time"

// MetricsRecorder collects per-protocol outcome counters for a run.
type MetricsRecorder interface {
	ObserveAttempt(network, protocol string, err error, elapsed time.Duration)
	ObserveFallback(network string)
	ObserveUnresolved(network string)
}
