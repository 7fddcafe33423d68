package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Lifecycle transitions by log action
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adsyclub_subscription_transitions_total",
			Help: "Total number of subscription lifecycle transitions by action",
		},
		[]string{"action"},
	)

	SweepRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adsyclub_sweep_runs_total",
			Help: "Total number of expiration sweep runs",
		},
	)

	SweepSubscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adsyclub_sweep_subscriptions_total",
			Help: "Subscriptions processed by the expiration sweep by outcome",
		},
		[]string{"outcome"}, // expired, failed
	)

	SweepLegacyUsersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adsyclub_sweep_legacy_users_total",
			Help: "Users whose stale pro flag was processed by the sweep by outcome",
		},
		[]string{"outcome"}, // cleared, failed
	)

	SweepDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adsyclub_sweep_duration_seconds",
			Help:    "Duration of expiration sweep runs",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	ProductsToggledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adsyclub_products_toggled_total",
			Help: "Products whose activation flag was changed by direction",
		},
		[]string{"direction"}, // activated, deactivated
	)
)

// RecordTransition records a lifecycle transition
func RecordTransition(action string) {
	TransitionsTotal.WithLabelValues(action).Inc()
}

// RecordSweep records the outcome of one sweep run
func RecordSweep(expired, failed, cleared, clearFailed int, duration time.Duration) {
	SweepRunsTotal.Inc()
	SweepSubscriptionsTotal.WithLabelValues("expired").Add(float64(expired))
	SweepSubscriptionsTotal.WithLabelValues("failed").Add(float64(failed))
	SweepLegacyUsersTotal.WithLabelValues("cleared").Add(float64(cleared))
	SweepLegacyUsersTotal.WithLabelValues("failed").Add(float64(clearFailed))
	SweepDurationSeconds.Observe(duration.Seconds())
}

// RecordProductsToggled records a bulk product activation change
func RecordProductsToggled(activate bool, count int) {
	if count <= 0 {
		return
	}
	direction := "deactivated"
	if activate {
		direction = "activated"
	}
	ProductsToggledTotal.WithLabelValues(direction).Add(float64(count))
}
