package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	ContentSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "content_saves_total", Help: "Content save attempts by result."},
		[]string{"result"},
	)
	BroadcastDeliveries = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "portal", Name: "broadcast_deliveries_total", Help: "content-updated events queued to viewer connections."},
	)
	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "portal", Name: "ws_connections", Help: "Currently registered push-channel connections."},
	)
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "logins_total", Help: "Login attempts by result."},
		[]string{"result"},
	)
	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "uploads_total", Help: "Asset uploads by result."},
		[]string{"result"},
	)
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "upstream_requests_total", Help: "Weather/currency upstream calls by provider and result."},
		[]string{"provider", "result"},
	)
	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "portal", Name: "circuit_breaker_state", Help: "Upstream circuit breaker state (0 closed, 1 half-open, 2 open)."},
		[]string{"name"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(ContentSaves)
	reg.MustRegister(BroadcastDeliveries)
	reg.MustRegister(WSConnections)
	reg.MustRegister(Logins)
	reg.MustRegister(Uploads)
	reg.MustRegister(UpstreamRequests)
	reg.MustRegister(CircuitBreakerState)
}
