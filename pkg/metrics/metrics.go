// Package metrics provides Prometheus instrumentation for DineHub.
//
// It pre-defines the standard HTTP metrics plus the order/review domain
// counters. Wire it up once when building the router:
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", metrics.Handler())
//
// Then scrape http://localhost:8080/metrics from Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dinehub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinehub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dinehub",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// OrdersCreated counts successfully placed orders per restaurant.
	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinehub",
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Total orders successfully created.",
		},
		[]string{"restaurant"},
	)

	// StatusTransitions counts order state-machine transitions.
	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinehub",
			Subsystem: "orders",
			Name:      "status_transitions_total",
			Help:      "Total order status transitions applied.",
		},
		[]string{"from", "to"},
	)

	// TransitionConflicts counts optimistic-locking races lost on order writes.
	TransitionConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dinehub",
		Subsystem: "orders",
		Name:      "transition_conflicts_total",
		Help:      "Order mutations that lost a concurrent-write race.",
	})

	// ReviewsCreated counts accepted restaurant reviews.
	ReviewsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dinehub",
		Subsystem: "reviews",
		Name:      "created_total",
		Help:      "Total reviews accepted.",
	})

	// CatalogCacheHits / CatalogCacheMisses track catalog cache effectiveness.
	CatalogCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dinehub",
		Subsystem: "catalog",
		Name:      "cache_hits_total",
		Help:      "Catalog lookups served from cache.",
	})
	CatalogCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dinehub",
		Subsystem: "catalog",
		Name:      "cache_misses_total",
		Help:      "Catalog lookups that went to the database.",
	})
)

// DefaultRegistry is the Prometheus registry used by DineHub.
// Register your own metrics against this.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	// Go runtime metrics (GC, goroutines, memory)
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	// OS process metrics (CPU, open FDs)
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		OrdersCreated,
		StatusTransitions,
		TransitionConflicts,
		ReviewsCreated,
		CatalogCacheHits,
		CatalogCacheMisses,
	)
}

// MustRegister panics if registration fails.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// responseRecorder wraps http.ResponseWriter to capture status code.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware returns an http.Handler middleware that records Prometheus
// metrics for every request: duration histogram, total counter, in-flight gauge.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path // raw path; normalize in high-cardinality APIs

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rr.status)

			RequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler returns an http.HandlerFunc that exposes the Prometheus metrics page.
// Mount it on GET /metrics in your router.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}
