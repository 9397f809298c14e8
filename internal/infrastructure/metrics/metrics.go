// Package metrics registers the Prometheus collectors of the service.
package metrics

import (
	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dejavu_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dejavu_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Match workflow metrics
	matchActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dejavu_match_actions_total",
			Help: "Total number of recorded match actions by action",
		},
		[]string{"action"},
	)

	matchRevealsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dejavu_match_reveals_total",
			Help: "Total number of matches whose shared chapters were revealed",
		},
	)

	matchActionConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dejavu_match_action_conflicts_total",
			Help: "Total number of concurrent match updates that had to be retried",
		},
	)
)

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, path, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

func IncMatchAction(action domain.Action) {
	matchActionsTotal.WithLabelValues(string(action)).Inc()
}

func IncMatchReveal() {
	matchRevealsTotal.Inc()
}

func IncMatchConflict() {
	matchActionConflictsTotal.Inc()
}
