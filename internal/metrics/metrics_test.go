package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("datavault")
	require.NoError(t, err)
	assert.NotNil(t, provider.MeterProvider())
	assert.NotNil(t, provider.Handler())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("datavault")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "datavault")
	require.NoError(t, err)

	bm.RecordOperation(context.Background(), "vault", "item_create", "success")
	bm.RecordOperation(context.Background(), "vault", "item_get", "error")
	bm.RecordDuration(context.Background(), "auth", "session_refresh", 150*time.Millisecond, "success")

	// The exposition endpoint must surface the recorded counters.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Regexp(t, `datavault_operations_total\{[^}]*domain="vault"[^}]*\}`, string(body))
	assert.Regexp(t, `datavault_operation_duration_seconds[^{]*\{[^}]*domain="auth"[^}]*\}`, string(body))
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()

	bm.RecordOperation(context.Background(), "vault", "item_create", "success")
	bm.RecordDuration(context.Background(), "vault", "item_create", time.Second, "success")
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("datavault")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "datavault"))
	router.GET("/v1/vault/items/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/vault/items/01890000-0000-7000-8000-000000000000", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// The path label must carry the route pattern, not the raw URL.
	mw := httptest.NewRecorder()
	mreq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(mw, mreq)

	body, err := io.ReadAll(mw.Body)
	require.NoError(t, err)
	assert.Regexp(t, `datavault_http_requests_total\{[^}]*path="/v1/vault/items/:id"[^}]*\}`, string(body))
}
