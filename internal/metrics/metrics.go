package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restaurante",
			Name:      "api_requests_total",
			Help:      "Backend API requests by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	reservationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restaurante",
			Name:      "reservation_status_changes_total",
			Help:      "Observed reservation status transitions by new status.",
		},
		[]string{"status"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, reservationTransitions)
	})
}

// IncAPIRequest counts one API call with its outcome ("ok" or "error").
func IncAPIRequest(operation, outcome string) {
	apiRequests.WithLabelValues(operation, outcome).Inc()
}

// IncStatusChange counts one observed reservation status transition.
func IncStatusChange(status string) {
	reservationTransitions.WithLabelValues(status).Inc()
}
