package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	registry *prometheus.Registry

	feesGenerated     *prometheus.CounterVec
	paymentsCollected *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		feesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feeledger_fees_generated_total",
			Help: "Monthly fees generated, by outcome.",
		}, []string{"outcome"}),
		paymentsCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feeledger_payments_collected_total",
			Help: "Payments collected, by outcome.",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "feeledger_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(m.feesGenerated, m.paymentsCollected, m.httpDuration)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) FeeGenerated(outcome string) {
	m.feesGenerated.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PaymentCollected(outcome string) {
	m.paymentsCollected.WithLabelValues(outcome).Inc()
}

// GinMiddleware records request latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.httpDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

var Module = fx.Module("metrics",
	fx.Provide(New),
)
