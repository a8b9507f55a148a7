package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	m := New(false)

	m.Transition("search", "capture_member")
	m.Transition("search", "capture_member")
	m.Lookup("directory", "found")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.transitions.WithLabelValues("search", "capture_member")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.lookups.WithLabelValues("directory", "found")))
}

func TestSessionsGauge(t *testing.T) {
	m := New(false)
	m.Sessions.Set(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.Sessions))
}

func TestImported(t *testing.T) {
	m := New(false)
	m.Imported(4, 1, 0)
	assert.Equal(t, float64(4), testutil.ToFloat64(m.imports.WithLabelValues("imported")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.imports.WithLabelValues("skipped")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(false)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/boxes/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Box not found"})
	})
	r.GET("/metrics", m.Handler())

	req, _ := http.NewRequest("GET", "/api/boxes/abc", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNotFound, resp.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/boxes/:id", "404")))

	req, _ = http.NewRequest("GET", "/metrics", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), "boxfinder_http_requests_total"))
}
