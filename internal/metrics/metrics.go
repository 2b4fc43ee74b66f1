package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// notifyRuns counts orchestrator runs.
	// Labels:
	// - trigger: "manual", "cron" or "test"
	// - status:  "ok", "disabled" or "error"
	notifyRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "licensedesk",
			Subsystem: "notify",
			Name:      "runs_total",
			Help:      "Total number of notification runs",
		},
		[]string{"trigger", "status"},
	)

	// notifyEmails counts per-license notification outcomes within runs.
	// Labels:
	// - result: "sent", "failed", "skipped_dedup" or "skipped_no_email"
	notifyEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "licensedesk",
			Subsystem: "notify",
			Name:      "emails_total",
			Help:      "Per-license notification outcomes",
		},
		[]string{"result"},
	)

	// notifyRunDuration tracks wall time of a full notification run.
	notifyRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "licensedesk",
			Subsystem: "notify",
			Name:      "run_duration_seconds",
			Help:      "Duration of notification runs",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// rateLimitExceeded counts HTTP 429 events from the rate limit middleware.
	// Labels:
	// - endpoint: short name like "notify:run", "notify:test"
	rateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "licensedesk",
			Subsystem: "http",
			Name:      "rate_limit_exceeded_total",
			Help:      "Number of requests rejected due to rate limiting (HTTP 429)",
		},
		[]string{"endpoint"},
	)
)

// IncNotifyRun records one orchestrator run outcome.
func IncNotifyRun(trigger, status string) {
	notifyRuns.WithLabelValues(trigger, status).Inc()
}

// IncNotifyEmail records one per-license outcome.
func IncNotifyEmail(result string) {
	notifyEmails.WithLabelValues(result).Inc()
}

// ObserveRunDuration records run wall time.
func ObserveRunDuration(d time.Duration) {
	notifyRunDuration.Observe(d.Seconds())
}

// IncRateLimitExceeded records one rejected request.
func IncRateLimitExceeded(endpoint string) {
	rateLimitExceeded.WithLabelValues(endpoint).Inc()
}
