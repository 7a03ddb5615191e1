// Package metrics exposes the Prometheus collectors shared by the services.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	upstreamCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conference",
		Name:      "upstream_requests_total",
		Help:      "Schedule provider requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	upstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "conference",
		Name:      "upstream_request_duration_seconds",
		Help:      "Schedule provider request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	ratingOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conference",
		Name:      "rating_operations_total",
		Help:      "Rating store operations by operation and outcome.",
	}, []string{"op", "outcome"})

	scheduleSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "conference",
		Name:      "schedule_sessions",
		Help:      "Content sessions in the last reconciled schedule.",
	})
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordUpstreamCall records a schedule provider call
func RecordUpstreamCall(endpoint string, duration time.Duration, err error) {
	upstreamCalls.WithLabelValues(endpoint, outcome(err)).Inc()
	upstreamLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordRatingOp records a rating store operation
func RecordRatingOp(op string, err error) {
	ratingOps.WithLabelValues(op, outcome(err)).Inc()
}

// SetScheduleSessions publishes the size of the reconciled schedule
func SetScheduleSessions(n int) {
	scheduleSessions.Set(float64(n))
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
