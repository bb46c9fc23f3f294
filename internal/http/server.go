// Package http provides the API server: router setup, health endpoints, and
// the request middleware stack.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/datavault/internal/auth/http"
	authUseCase "github.com/allisson/datavault/internal/auth/usecase"
	"github.com/allisson/datavault/internal/config"
	"github.com/allisson/datavault/internal/metrics"
	vaultHTTP "github.com/allisson/datavault/internal/vault/http"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The database handle backs the
// readiness probe; a nil handle reports not ready.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterDeps carries the handlers and cross-cutting pieces SetupRouter wires
// into the route tree.
type RouterDeps struct {
	Config          *config.Config
	SessionHandler  *authHTTP.SessionHandler
	VaultItemHandler *vaultHTTP.VaultItemHandler
	TagHandler      *vaultHTTP.TagHandler
	SessionUseCase  authUseCase.SessionUseCase
	MetricsProvider *metrics.Provider
}

// SetupRouter builds the gin engine and installs it as the server handler.
func (s *Server) SetupRouter(deps RouterDeps) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	cfg := deps.Config
	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", deps.SessionHandler.LoginHandler)
	auth.POST("/refresh", deps.SessionHandler.RefreshHandler)
	auth.POST("/logout", deps.SessionHandler.LogoutHandler)

	protected := v1.Group("")
	protected.Use(authHTTP.AuthenticationMiddleware(deps.SessionUseCase, s.logger))
	if cfg.RateLimitEnabled {
		protected.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	protected.GET("/auth/me", deps.SessionHandler.MeHandler)

	items := protected.Group("/vault/items")
	items.POST("", deps.VaultItemHandler.CreateHandler)
	items.GET("", deps.VaultItemHandler.ListHandler)
	items.GET("/:id", deps.VaultItemHandler.GetHandler)
	items.PATCH("/:id", deps.VaultItemHandler.UpdateHandler)
	items.DELETE("/:id", deps.VaultItemHandler.DeleteHandler)

	tags := protected.Group("/vault/tags")
	tags.POST("", deps.TagHandler.CreateHandler)
	tags.GET("", deps.TagHandler.ListHandler)
	tags.PATCH("/:id", deps.TagHandler.UpdateHandler)
	tags.DELETE("/:id", deps.TagHandler.DeleteHandler)

	s.server.Handler = router
}

// Handler returns the installed handler for testing purposes.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can do useful work, checking
// the database connection.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

// CustomLoggerMiddleware logs one line per request with the request id
// assigned by the requestid middleware.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
