package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flavorfusion",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flavorfusion",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	gatewayCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flavorfusion",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Total number of entity gateway calls by outcome.",
		},
		[]string{"backend", "operation", "outcome"},
	)

	gatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flavorfusion",
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Duration of entity gateway calls.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"backend", "operation"},
	)

	workspaces = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "flavorfusion",
			Subsystem: "app",
			Name:      "workspaces",
			Help:      "Number of live browser workspaces.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		gatewayCalls,
		gatewayDuration,
		workspaces,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency labelled by route template.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			httpRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			httpDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// SetWorkspaces records the number of live browser workspaces.
func SetWorkspaces(n int) {
	workspaces.Set(float64(n))
}

// RecordGatewayCall records one gateway call and its outcome.
func RecordGatewayCall(backend, operation string, err error, duration time.Duration) {
	gatewayCalls.WithLabelValues(backend, operation, Outcome(err)).Inc()
	gatewayDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// Outcome classifies an error into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNetwork):
		return "network"
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidCredentials):
		return "auth"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrDuplicateAccount):
		return "rejected"
	default:
		return "error"
	}
}
