// Package metrics exposes reservation and token counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements commands.Metrics and tokens.Metrics.
type Collector struct {
	commitOutcomes  *prometheus.CounterVec
	paymentLatency  *prometheus.HistogramVec
	inconsistencies prometheus.Counter
	tokenRotations  *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		commitOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_commit_total",
			Help: "Reservation commits by outcome.",
		}, []string{"outcome"}),
		paymentLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reservation_payment_duration_seconds",
			Help:    "Payment gateway charge latency including retries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		inconsistencies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservation_post_commit_inconsistency_total",
			Help: "Payments captured without a persisted reservation.",
		}),
		tokenRotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_refresh_rotation_total",
			Help: "Refresh token rotations by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.commitOutcomes,
		c.paymentLatency,
		c.inconsistencies,
		c.tokenRotations,
	)

	return c
}

func (c *Collector) CommitOutcome(outcome string) {
	c.commitOutcomes.WithLabelValues(outcome).Inc()
}

func (c *Collector) PaymentDuration(d time.Duration, outcome string) {
	c.paymentLatency.WithLabelValues(outcome).Observe(d.Seconds())
}

func (c *Collector) PostCommitInconsistency() {
	c.inconsistencies.Inc()
}

func (c *Collector) TokenRotation(outcome string) {
	c.tokenRotations.WithLabelValues(outcome).Inc()
}

// Handler serves the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
