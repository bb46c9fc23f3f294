package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/limited",
		// Stands in for the authentication middleware: a filled X-Test-User
		// header puts a user with a deterministic ID in the context.
		func(c *gin.Context) {
			if name := c.GetHeader("X-Test-User"); name != "" {
				user := testUser()
				user.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
				c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))
			}
			c.Next()
		},
		RateLimitMiddleware(rps, burst, testLogger()),
		func(c *gin.Context) {
			c.Status(http.StatusOK)
		},
	)
	return router
}

func doLimitedGet(router *gin.Engine, userName string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	if userName != "" {
		req.Header.Set("X-Test-User", userName)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("allows requests within the burst", func(t *testing.T) {
		router := setupRateLimitedRouter(1, 3)

		for i := 0; i < 3; i++ {
			w := doLimitedGet(router, "user-a")
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("rejects requests past the burst", func(t *testing.T) {
		router := setupRateLimitedRouter(0.001, 2)

		for i := 0; i < 2; i++ {
			w := doLimitedGet(router, "user-a")
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := doLimitedGet(router, "user-a")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	})

	t.Run("buckets are per user", func(t *testing.T) {
		router := setupRateLimitedRouter(0.001, 1)

		require.Equal(t, http.StatusOK, doLimitedGet(router, "user-a").Code)
		require.Equal(t, http.StatusTooManyRequests, doLimitedGet(router, "user-a").Code)

		assert.Equal(t, http.StatusOK, doLimitedGet(router, "user-b").Code)
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		router := setupRateLimitedRouter(1, 1)

		w := doLimitedGet(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
