// Package metrics exposes Prometheus counters for the recipe backend. A nil
// *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a registry and the application metrics registered on it
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	generationsTotal    *prometheus.CounterVec
	generationCache     *prometheus.CounterVec
	imagesTotal         *prometheus.CounterVec
	modelCallDuration   *prometheus.HistogramVec
	userServiceTotal    *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_generations_total",
				Help: "Recipe generation requests by outcome",
			},
			[]string{"outcome"},
		),
		generationCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_generation_cache_total",
				Help: "Generation cache lookups by result",
			},
			[]string{"result"},
		),
		imagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_images_total",
				Help: "Recipe image attempts by outcome",
			},
			[]string{"outcome"},
		),
		modelCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "model_call_duration_seconds",
				Help:    "Latency of language and image model calls",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"kind", "status"},
		),
		userServiceTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_service_requests_total",
				Help: "Requests to the external user service by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// HTTPMiddleware records request counts and latency per route
func (m *Collector) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Collector) GenerationOutcome(outcome string) {
	if m == nil {
		return
	}
	m.generationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Collector) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.generationCache.WithLabelValues(result).Inc()
}

func (m *Collector) ImageOutcome(outcome string) {
	if m == nil {
		return
	}
	m.imagesTotal.WithLabelValues(outcome).Inc()
}

func (m *Collector) ModelCall(kind string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.modelCallDuration.WithLabelValues(kind, status).Observe(d.Seconds())
}

func (m *Collector) UserServiceRequest(outcome string) {
	if m == nil {
		return
	}
	m.userServiceTotal.WithLabelValues(outcome).Inc()
}
