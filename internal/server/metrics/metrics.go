// Package metrics collects Prometheus metrics for the auth flows and the two
// transports and exposes them for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements services.EventRecorder and the transport hooks.
type Collector struct {
	authEvents     *prometheus.CounterVec
	gateRejections *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	grpcRequests   *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usersvc_auth_events_total",
			Help: "Register and login attempts by outcome.",
		}, []string{"event", "outcome"}),
		gateRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usersvc_gate_rejections_total",
			Help: "Requests rejected by the authorization gate by reason.",
		}, []string{"reason"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usersvc_http_requests_total",
			Help: "HTTP responses by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "usersvc_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		grpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usersvc_grpc_requests_total",
			Help: "gRPC calls by method and status code.",
		}, []string{"method", "code"}),
	}

	reg.MustRegister(
		c.authEvents,
		c.gateRejections,
		c.httpRequests,
		c.httpLatency,
		c.grpcRequests,
	)

	return c
}

func (c *Collector) RecordAuthEvent(event, outcome string) {
	c.authEvents.WithLabelValues(event, outcome).Inc()
}

func (c *Collector) RecordGateRejection(reason string) {
	c.gateRejections.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest records one served request. route is the chi route
// pattern, or "unmatched", never the raw path.
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(route).Observe(d.Seconds())
}

func (c *Collector) RecordGRPCRequest(method, code string) {
	c.grpcRequests.WithLabelValues(method, code).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
