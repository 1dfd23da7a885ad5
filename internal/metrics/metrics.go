// Package metrics defines Prometheus metrics for the moderation core.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fundforge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundforge_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundforge_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundforge_moderation_transitions_total",
			Help: "Moderation transitions by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	AuthzDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundforge_authz_denials_total",
			Help: "Authorization denials by capability and reason",
		},
		[]string{"capability", "reason"},
	)

	AuditWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fundforge_audit_write_failures_total",
			Help: "Audit appends that failed after a committed transition",
		},
	)

	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fundforge_audit_queue_depth",
			Help: "Current best-effort audit queue depth",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		TransitionsTotal, AuthzDenialsTotal,
		AuditWriteFailuresTotal, AuditQueueDepth,
	)
}
