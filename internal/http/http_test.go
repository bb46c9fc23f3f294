package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/datavault/internal/auth/domain"
	authHTTP "github.com/allisson/datavault/internal/auth/http"
	authUseCase "github.com/allisson/datavault/internal/auth/usecase"
	"github.com/allisson/datavault/internal/config"
	identityDomain "github.com/allisson/datavault/internal/identity/domain"
	identityUseCase "github.com/allisson/datavault/internal/identity/usecase"
	vaultHTTP "github.com/allisson/datavault/internal/vault/http"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// createTestServer creates a test server with a discarding logger.
func createTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(nil, "localhost", 8080, logger)
}

// stubSessionUseCase rejects every request; enough to exercise routing and
// the authentication middleware without a database.
type stubSessionUseCase struct{}

func (s *stubSessionUseCase) CompleteLogin(ctx context.Context, profile identityUseCase.OAuthProfile, client authUseCase.ClientInfo) (*identityDomain.User, *authDomain.TokenPair, error) {
	return nil, nil, authDomain.ErrInvalidAccessToken
}

func (s *stubSessionUseCase) Refresh(ctx context.Context, refreshToken string, client authUseCase.ClientInfo) (*authDomain.TokenPair, error) {
	return nil, authDomain.ErrSessionNotFound
}

func (s *stubSessionUseCase) Authenticate(ctx context.Context, accessToken string) (*identityDomain.User, error) {
	return nil, authDomain.ErrInvalidAccessToken
}

func (s *stubSessionUseCase) Logout(ctx context.Context, refreshToken string) error {
	return nil
}

func (s *stubSessionUseCase) CleanExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

func setupTestRouter(server *Server) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessionUC := &stubSessionUseCase{}

	server.SetupRouter(RouterDeps{
		Config: &config.Config{
			RateLimitEnabled:        true,
			RateLimitRequestsPerSec: 10,
			RateLimitBurst:          20,
		},
		SessionHandler:   authHTTP.NewSessionHandler(sessionUC, logger),
		VaultItemHandler: vaultHTTP.NewVaultItemHandler(nil, logger),
		TagHandler:       vaultHTTP.NewTagHandler(nil, logger),
		SessionUseCase:   sessionUC,
	})
}

// TestHealthHandler tests the health check endpoint handler.
func TestHealthHandler(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "healthy", response["status"])
}

// TestReadinessHandler_NotReady_NilDB tests the readiness endpoint when DB is nil.
func TestReadinessHandler_NotReady_NilDB(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	server.readinessHandler(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "not_ready", response["status"])

	components, ok := response["components"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "error", components["database"])
}

// TestCustomLoggerMiddleware tests the custom logging middleware.
func TestCustomLoggerMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "test", response["message"])
}

// TestRecoveryMiddleware tests Gin's built-in recovery middleware.
func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// TestSetupRouter exercises the full route tree without a database.
func TestSetupRouter(t *testing.T) {
	server := createTestServer()
	setupTestRouter(server)
	handler := server.Handler()
	require.NotNil(t, handler)

	t.Run("health endpoint", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ready endpoint reports database error without a pool", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("vault routes require authentication", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/vault/items", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me route requires authentication", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
