package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los colectores del servicio sobre un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	apiErrorsTotal      *prometheus.CounterVec
	rateLimitedTotal    prometheus.Counter
	storeQueryDuration  *prometheus.HistogramVec
	storeQueryErrors    *prometheus.CounterVec
}

// New registra los colectores. Con registry nil se crea uno nuevo con los
// colectores de proceso y runtime de Go.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		apiErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_errors_total",
				Help: "Total number of API errors by route and status",
			},
			[]string{"route", "status"},
		),
		rateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "http_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),
		storeQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "store_query_duration_seconds",
				Help:    "Document store query duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"operation"},
		),
		storeQueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_query_errors_total",
				Help: "Total number of failed document store queries",
			},
			[]string{"operation"},
		),
	}
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest registra una petición ya respondida.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) IncAPIError(route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	m.apiErrorsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) IncRateLimited() {
	m.rateLimitedTotal.Inc()
}

// ObserveStoreQuery implementa application.QueryObserver.
func (m *Metrics) ObserveStoreQuery(operation string, elapsed time.Duration, err error) {
	m.storeQueryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if err != nil {
		m.storeQueryErrors.WithLabelValues(operation).Inc()
	}
}
