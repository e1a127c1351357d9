package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementCreated()
	m.IncrementCreated()
	m.IncrementRejected("cnic_no", "cnic")
	m.IncrementCollision()
	m.ObserveCache("dashboard", true)
	m.ObserveCache("dashboard", false)
	m.ObserveCache("dashboard", false)
	m.ObserveReport("dashboard", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ApplicationsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ApplicationsRejected.WithLabelValues("cnic_no", "cnic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IdentifierCollisions))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReportCache.WithLabelValues("dashboard", "miss")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ReportDuration))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementCreated()
		m.IncrementRejected("f", "r")
		m.IncrementCollision()
		m.ObserveReport("r", time.Second)
		m.ObserveCache("r", true)
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/applications/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/applications/7", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/applications/:id", "GET", "404")))
}
