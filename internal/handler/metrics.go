package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/Klir-FH/MRP/internal/middleware"
)

// Metrics holds the Prometheus collectors. They are usable before
// InitMetrics registers them.
var Metrics = struct {
	SearchesTotal        prometheus.Counter
	SearchResults        prometheus.Histogram
	RecommendationsTotal *prometheus.CounterVec
	GenreUpdatesTotal    prometheus.Counter
	RatingsTotal         *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	RequestsInFlight     prometheus.Gauge
}{
	SearchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mrp_searches_total",
		Help: "Total media searches served.",
	}),
	SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mrp_search_results",
		Help:    "Number of entries returned per search.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}),
	RecommendationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mrp_recommendations_total",
		Help: "Total recommendation requests, by strategy.",
	}, []string{"strategy"}),
	GenreUpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mrp_genre_updates_total",
		Help: "Total successful genre replacements.",
	}),
	RatingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mrp_rating_writes_total",
		Help: "Total successful rating writes, by action.",
	}, []string{"action"}),
	RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mrp_api_request_duration_seconds",
		Help:    "HTTP request duration in seconds, by endpoint and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "method", "status"}),
	RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mrp_requests_in_flight",
		Help: "Number of HTTP requests currently being served.",
	}),
}

// InitMetrics registers all collectors with reg. Call once at startup.
func InitMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) {
	if pool != nil {
		reg.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "mrp_db_connection_pool_active",
				Help: "Number of active database connections.",
			}, func() float64 {
				return float64(pool.Stat().AcquiredConns())
			}),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "mrp_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			}, func() float64 {
				return float64(pool.Stat().IdleConns())
			}),
		)
	}

	reg.MustRegister(
		Metrics.SearchesTotal,
		Metrics.SearchResults,
		Metrics.RecommendationsTotal,
		Metrics.GenreUpdatesTotal,
		Metrics.RatingsTotal,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings before c.Next(); Fiber
		// returns slices backed by the fasthttp buffer which can be reused.
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	return middleware.SanitizePath(path)
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler(gatherer prometheus.Gatherer) fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
