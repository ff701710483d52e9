package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Due tasks found per evaluation run.
	DueTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_due_tasks_total",
			Help: "Total number of tasks selected as due by the scheduling pipeline",
		},
		[]string{"cadence"},
	)

	// Tasks dropped from the due set.
	DroppedTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_dropped_tasks_total",
			Help: "Total number of due tasks dropped before dispatch",
		},
		[]string{"reason"}, // reason: no_recipients, duplicate
	)

	// Dispatch items published to the exchange.
	DispatchPublishedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_published_total",
			Help: "Total number of per-recipient dispatch items published",
		},
		[]string{"status"}, // status: success, failed
	)

	// Emails delivered by the worker.
	EmailDeliveredCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_delivered_total",
			Help: "Total number of dispatch emails delivered",
		},
		[]string{"status"}, // status: success, failed
	)

	// Generation agent call latency (milliseconds).
	AgentCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_call_latency_ms",
			Help:    "Generation agent call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"endpoint", "status"},
	)

	// Database query latency (seconds).
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)
)

// IncrementDueTask records one due task for a cadence kind.
func IncrementDueTask(cadence string) {
	DueTaskCount.WithLabelValues(cadence).Inc()
}

// IncrementDroppedTask records one dropped task with its reason.
func IncrementDroppedTask(reason string) {
	DroppedTaskCount.WithLabelValues(reason).Inc()
}

// IncrementDispatchPublished records one dispatch publish attempt.
func IncrementDispatchPublished(status string) {
	DispatchPublishedCount.WithLabelValues(status).Inc()
}

// IncrementEmailDelivered records one email delivery attempt.
func IncrementEmailDelivered(status string) {
	EmailDeliveredCount.WithLabelValues(status).Inc()
}

// RecordAgentCallLatency records a generation agent call.
func RecordAgentCallLatency(endpoint, status string, duration time.Duration) {
	AgentCallLatency.WithLabelValues(endpoint, status).Observe(float64(duration.Milliseconds()))
}

// RecordDBQueryDuration records a repository query.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}
