package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tracks outbound calls to the repurpose service.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repurpose_api_requests_total",
			Help: "Total number of repurpose service requests made (by endpoint, method and status).",
		},
		[]string{"endpoint", "method", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repurpose_api_request_duration_seconds",
			Help:    "Duration of repurpose service requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"endpoint", "method"},
	)

	// Reads and writes against the credential slot.
	CredentialAccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repurpose_credential_access_total",
			Help: "Credential store operations by backend, op and result.",
		},
		[]string{"backend", "op", "result"}, // op = get | set; result = hit | miss | ok | error
	)

	// Notifications shown to the user, by kind.
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repurpose_notifications_total",
			Help: "User-facing notifications by kind.",
		},
		[]string{"kind"}, // login_ok | login_rejected | missing_credential | ...
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repurpose_errors_total",
			Help: "Count of client-level errors by component.",
		},
		[]string{"component", "reason"},
	)
)

// ObserveRequest records the outcome and latency of one service call.
func ObserveRequest(endpoint, method, status string, start time.Time) {
	RequestsTotal.WithLabelValues(endpoint, method, status).Inc()
	RequestDuration.WithLabelValues(endpoint, method).Observe(time.Since(start).Seconds())
}

func IncCredentialAccess(backend, op, result string) {
	CredentialAccess.WithLabelValues(backend, op, result).Inc()
}

func IncNotification(kind string) {
	Notifications.WithLabelValues(kind).Inc()
}

func IncError(component, reason string) {
	ErrorsTotal.WithLabelValues(component, reason).Inc()
}
