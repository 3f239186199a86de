// Package metrics holds the Prometheus collectors exported by the service.
//
// Collectors live on a registry owned by the Metrics value rather than on the
// global default registerer, so every fx graph and every test gets its own.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domainErrors "github.com/polkiloo/restaurant/internal/domain/errors"
	"github.com/polkiloo/restaurant/internal/domain/model"
)

const namespace = "restaurant"

// Notification outcomes.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeQueued  = "queued"
	OutcomeDropped = "dropped"
	OutcomeRetried = "retried"
	// OutcomeRejected counts messages a transport refused as malformed.
	OutcomeRejected = "rejected"
)

// Metrics groups the service collectors and the registry they are exposed from.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	requestErrors *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// New creates collectors and registers them together with Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_errors_total",
			Help:      "Failed requests by route and error kind.",
		}, []string{"route", "kind"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification emails by event and outcome.",
		}, []string{"event", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.requestErrors,
		m.notifications,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records a finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RequestError counts a failed request by its error kind.
func (m *Metrics) RequestError(route string, kind domainErrors.Kind) {
	if m == nil {
		return
	}
	m.requestErrors.WithLabelValues(route, string(kind)).Inc()
}

// Notification counts one notification outcome.
func (m *Metrics) Notification(event model.Event, outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(string(event), outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
