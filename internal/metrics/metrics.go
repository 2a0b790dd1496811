// Package metrics exposes Prometheus collectors for the HTTP surface and the
// auth and access decisions behind it.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fitflix/backend/internal/access"
	"github.com/fitflix/backend/internal/models"
)

// Metrics groups the collectors registered by the service.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	logins          *prometheus.CounterVec
	accessDecisions *prometheus.CounterVec
}

// New creates collectors on a fresh registry so tests can build as many as
// they need.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		accessDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "video_access_decisions_total",
			Help: "Video access decisions by outcome and video type.",
		}, []string{"outcome", "type"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.logins,
		m.accessDecisions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records a completed HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordLogin counts a login attempt. outcome is "success", "invalid" or "error".
func (m *Metrics) RecordLogin(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

// RecordAccess implements access.Recorder.
func (m *Metrics) RecordAccess(decision access.Decision, videoType models.VideoType) {
	m.accessDecisions.WithLabelValues(string(decision), string(videoType)).Inc()
}

var _ access.Recorder = (*Metrics)(nil)
