// Package metrics provides Prometheus metrics for process shutdown.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signalsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procctl",
		Name:      "signals_sent_total",
		Help:      "Signals and terminations delivered to processes",
	}, []string{"signal"})

	signalErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procctl",
		Name:      "signal_errors_total",
		Help:      "Failed signal deliveries by error code",
	}, []string{"code"})

	stops = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procctl",
		Name:      "stops_total",
		Help:      "Completed stop sequences by outcome",
	}, []string{"outcome"})

	stopDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "procctl",
		Name:      "stop_duration_seconds",
		Help:      "Time from shutdown request until the process was gone",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 4, 8, 16, 32, 64},
	})
)

// RecordSignal counts a successful delivery of signal (e.g. "TERM").
func RecordSignal(signal string) {
	signalsSent.WithLabelValues(signal).Inc()
}

// RecordSignalError counts a failed delivery. An empty code is recorded as "OTHER".
func RecordSignalError(code string) {
	if code == "" {
		code = "OTHER"
	}
	signalErrors.WithLabelValues(code).Inc()
}

// RecordStop counts a finished stop sequence and observes its duration.
func RecordStop(outcome string, elapsed time.Duration) {
	stops.WithLabelValues(outcome).Inc()
	stopDuration.Observe(elapsed.Seconds())
}
