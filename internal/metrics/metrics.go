package metrics

import (
	"epoxy_monitor/internal/tracker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "epoxy"

var (
	metricUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Update Epoxy actions processed across all sessions",
		},
	)

	metricNotifications = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_raised_total",
			Help:      "Range notifications raised (transitions into the in-range message)",
		},
	)

	metricActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Monitoring sessions currently held in memory",
		},
	)

	metricSessionsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_closed_total",
			Help:      "Sessions discarded, by reason (closed, expired)",
		},
		[]string{"reason"},
	)

	metricLastTemperature = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_temperature_celsius",
			Help:      "Temperature of the most recent update with a numeric reading",
		},
	)
)

func SessionOpened() {
	metricActiveSessions.Inc()
}

// SessionClosed records a discarded session; reason is "closed" or "expired".
func SessionClosed(reason string) {
	metricActiveSessions.Dec()
	metricSessionsClosed.WithLabelValues(reason).Inc()
}

// UpdateRecorded counts an update and tracks its temperature when numeric.
func UpdateRecorded(temperature tracker.Number) {
	metricUpdates.Inc()
	if temperature.Valid {
		metricLastTemperature.Set(temperature.Value)
	}
}

func NotificationRaised() {
	metricNotifications.Inc()
}
