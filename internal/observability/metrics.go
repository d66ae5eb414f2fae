package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Undo outcome labels.
const (
	UndoOutcomeRestored      = "restored"
	UndoOutcomeStale         = "stale"
	UndoOutcomeUnknownEvent  = "unknown_event"
	UndoOutcomeAlreadyUndone = "already_undone"
)

var (
	registerOnce         sync.Once
	apiRequestsTotal     *prometheus.CounterVec
	apiLatencySeconds    *prometheus.HistogramVec
	apiErrorsTotal       *prometheus.CounterVec
	logsRecordedTotal    *prometheus.CounterVec
	undoOutcomesTotal    *prometheus.CounterVec
	unknownRendersTotal  prometheus.Counter
	logListCacheRequests *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aula_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aula_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aula_errors_total",
			Help: "Total number of error responses.",
		}, []string{"method", "route", "status"})

		logsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aula_logs_recorded_total",
			Help: "Log entries written, by entry type.",
		}, []string{"type"})

		undoOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aula_undo_outcomes_total",
			Help: "Undo invocations by outcome, including the deliberate no-op cases.",
		}, []string{"outcome"})

		unknownRendersTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aula_log_render_unknown_event_total",
			Help: "Log entries whose event has no description template.",
		})

		logListCacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aula_log_list_cache_requests_total",
			Help: "Log list cache lookups by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			logsRecordedTotal,
			undoOutcomesTotal,
			unknownRendersTotal,
			logListCacheRequests,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// LogsRecorded exposes the counter for written log entries.
func LogsRecorded() *prometheus.CounterVec {
	RegisterMetrics()
	return logsRecordedTotal
}

// UndoOutcomes exposes the counter for undo outcomes.
func UndoOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return undoOutcomesTotal
}

// UnknownRenders exposes the counter for untemplated log events.
func UnknownRenders() prometheus.Counter {
	RegisterMetrics()
	return unknownRendersTotal
}

// LogListCacheRequests exposes the counter for log list cache lookups.
func LogListCacheRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return logListCacheRequests
}
