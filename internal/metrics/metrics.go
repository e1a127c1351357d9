package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the onboarding service. All methods are
// safe on a nil receiver.
type Metrics struct {
	ApplicationsCreated  prometheus.Counter
	ApplicationsRejected *prometheus.CounterVec
	IdentifierCollisions prometheus.Counter

	ReportDuration *prometheus.HistogramVec
	ReportCache    *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New registers the service metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ApplicationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_applications_created_total",
			Help: "Total number of account applications accepted and stored",
		}),

		ApplicationsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_applications_rejected_total",
			Help: "Total applications rejected by validation, by field and rule",
		}, []string{"field", "rule"}),

		IdentifierCollisions: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_identifier_collisions_total",
			Help: "Generated account numbers or IBANs that clashed with stored ones",
		}),

		ReportDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "onboarding_report_duration_seconds",
			Help:    "Duration of analytics report computation by report",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"report"}),

		ReportCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_report_cache_total",
			Help: "Report cache lookups by report and result",
		}, []string{"report", "result"}), // result: "hit", "miss"

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "onboarding_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

func (m *Metrics) IncrementCreated() {
	if m != nil {
		m.ApplicationsCreated.Inc()
	}
}

// IncrementRejected records a validation failure.
func (m *Metrics) IncrementRejected(field, rule string) {
	if m != nil {
		m.ApplicationsRejected.WithLabelValues(field, rule).Inc()
	}
}

func (m *Metrics) IncrementCollision() {
	if m != nil {
		m.IdentifierCollisions.Inc()
	}
}

func (m *Metrics) ObserveReport(report string, d time.Duration) {
	if m != nil {
		m.ReportDuration.WithLabelValues(report).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveCache(report string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ReportCache.WithLabelValues(report, result).Inc()
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
