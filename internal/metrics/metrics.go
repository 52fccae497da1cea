package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wayfare",
			Name:      "backend_requests_total",
			Help:      "Outgoing backend requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	botUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wayfare",
			Name:      "bot_updates_total",
			Help:      "Processed Telegram updates by kind.",
		},
		[]string{"kind"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(backendRequests, botUpdates)
	})
}

// IncRequest increments the backend request counter. Outcome is "ok",
// "api_error" or "transport_error".
func IncRequest(endpoint, outcome string) {
	backendRequests.WithLabelValues(endpoint, outcome).Inc()
}

// IncBotUpdate increments the update counter for a kind label.
func IncBotUpdate(kind string) {
	botUpdates.WithLabelValues(kind).Inc()
}
