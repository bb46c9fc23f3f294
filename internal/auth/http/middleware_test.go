package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/datavault/internal/auth/domain"
	identityDomain "github.com/allisson/datavault/internal/identity/domain"
)

func setupProtectedRouter(uc *MockSessionUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", AuthenticationMiddleware(uc, testLogger()), func(c *gin.Context) {
		user, ok := GetUser(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID.String()})
	})
	return router
}

func doGet(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticationMiddleware(t *testing.T) {
	t.Run("valid token reaches the handler with the user in context", func(t *testing.T) {
		uc := &MockSessionUseCase{}
		user := testUser()
		uc.On("Authenticate", mock.Anything, "valid-token").Return(user, nil)

		w := doGet(setupProtectedRouter(uc), "Bearer valid-token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), user.ID.String())
	})

	t.Run("bearer prefix is case-insensitive", func(t *testing.T) {
		uc := &MockSessionUseCase{}
		uc.On("Authenticate", mock.Anything, "valid-token").Return(testUser(), nil)

		w := doGet(setupProtectedRouter(uc), "bearer valid-token")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		uc := &MockSessionUseCase{}
		w := doGet(setupProtectedRouter(uc), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		uc.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		uc := &MockSessionUseCase{}
		w := doGet(setupProtectedRouter(uc), "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		uc.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("empty bearer token", func(t *testing.T) {
		uc := &MockSessionUseCase{}
		w := doGet(setupProtectedRouter(uc), "Bearer ")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		uc.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("invalid token", func(t *testing.T) {
		uc := &MockSessionUseCase{}
		uc.On("Authenticate", mock.Anything, "bad-token").
			Return(nil, authDomain.ErrInvalidAccessToken)

		w := doGet(setupProtectedRouter(uc), "Bearer bad-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUserContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		user := testUser()
		ctx := WithUser(context.Background(), user)

		got, ok := GetUser(ctx)
		require.True(t, ok)
		assert.Same(t, user, got)
	})

	t.Run("absent user", func(t *testing.T) {
		got, ok := GetUser(context.Background())
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("nil user stored", func(t *testing.T) {
		ctx := WithUser(context.Background(), (*identityDomain.User)(nil))
		got, ok := GetUser(ctx)
		assert.True(t, ok)
		assert.Nil(t, got)
	})
}
