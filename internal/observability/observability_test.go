package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestHTTPMetricsMiddlewareLabelsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(HTTPMetricsMiddleware())
	r.GET("/messages/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/messages/:id", "418"))
	unmatchedBefore := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/messages/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/messages/:id", "418")))
	assert.Equal(t, unmatchedBefore+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestMessagingCounters(t *testing.T) {
	before := testutil.ToFloat64(deliveryBlockedTotal.WithLabelValues("receiver"))
	IncDeliveryBlocked("receiver")
	assert.Equal(t, before+1, testutil.ToFloat64(deliveryBlockedTotal.WithLabelValues("receiver")))

	active := testutil.ToFloat64(wsActiveConnections.WithLabelValues("conversation"))
	IncWSActive("conversation")
	DecWSActive("conversation")
	assert.Equal(t, active, testutil.ToFloat64(wsActiveConnections.WithLabelValues("conversation")))
}

func TestHeadersFromContext(t *testing.T) {
	assert.Empty(t, HeadersFromContext(context.Background()))

	ctx := WithRequestID(context.Background(), "req-1")
	traceID := trace.TraceID{1, 2, 3}
	ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  trace.SpanID{4},
	}))

	headers := HeadersFromContext(ctx)
	assert.Equal(t, "req-1", headers["x-request-id"])
	assert.Equal(t, traceID.String(), headers["trace_id"])
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
}

func TestIPFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	assert.Equal(t, "10.0.0.2", IPFromRequest(req))

	req.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	assert.Equal(t, "203.0.113.9", IPFromRequest(req))

	req.Header.Set("X-Request-Id", "abc")
	assert.Equal(t, "abc", RequestIDFromRequest(req))
}

func TestSetupTracingWithoutEndpoint(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), "venture-chat", "test", "")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
