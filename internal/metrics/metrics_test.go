package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

func TestRecordTransitionAndPublish(t *testing.T) {
	m := New()

	m.RecordTransition(model.OrderStatusPlaced)
	m.RecordTransition(model.OrderStatusPlaced)
	m.RecordTransition(model.OrderStatusCancelled)
	m.RecordPublish(model.OrderStatusPlaced, nil)
	m.RecordPublish(model.OrderStatusPlaced, errors.New("down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("placed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("cancelled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.published.WithLabelValues("placed", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.published.WithLabelValues("placed", "error")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/orders/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	m.RecordTransition(model.OrderStatusDelivered)
	for _, path := range []string{"/api/orders/1", "/api/orders/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/orders/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quickmart_http_requests_total")
	assert.Contains(t, w.Body.String(), `quickmart_order_transitions_total{status="delivered"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
