package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamtrack_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teamtrack_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// AuditFailures is the failure channel of the fire-and-forget
	// audit recorder; these never surface to the request.
	AuditFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "teamtrack_audit_record_failures_total",
			Help: "Total number of swallowed audit log write failures",
		},
	)

	// UnauthorizedAttempts counts authenticated-but-forbidden denials
	UnauthorizedAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "teamtrack_unauthorized_access_attempts_total",
			Help: "Total number of denied authorization checks",
		},
	)

	// QuotaDenials counts creations rejected by plan limits
	QuotaDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamtrack_quota_denials_total",
			Help: "Total number of creations rejected by tenant quotas",
		},
		[]string{"resource"},
	)
)
