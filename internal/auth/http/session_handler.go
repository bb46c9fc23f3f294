package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/datavault/internal/auth/http/dto"
	authUseCase "github.com/allisson/datavault/internal/auth/usecase"
	apperrors "github.com/allisson/datavault/internal/errors"
	"github.com/allisson/datavault/internal/httputil"
	identityUseCase "github.com/allisson/datavault/internal/identity/usecase"
	customValidation "github.com/allisson/datavault/internal/validation"
)

// SessionHandler handles HTTP requests for the session lifecycle.
type SessionHandler struct {
	sessionUseCase authUseCase.SessionUseCase
	logger         *slog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessionUseCase authUseCase.SessionUseCase, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

// LoginHandler completes a login for an externally verified identity and
// returns the user plus a fresh token pair.
// POST /v1/auth/login
func (h *SessionHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	profile := identityUseCase.OAuthProfile{
		GoogleID:   req.GoogleID,
		Email:      req.Email,
		Name:       req.Name,
		PictureURL: req.PictureURL,
	}
	user, pair, err := h.sessionUseCase.CompleteLogin(c.Request.Context(), profile, clientInfo(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		User:  dto.MapUserToResponse(user),
		Token: dto.MapTokenPairToResponse(pair),
	})
}

// RefreshHandler rotates a refresh token and returns a new pair.
// POST /v1/auth/refresh
func (h *SessionHandler) RefreshHandler(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	pair, err := h.sessionUseCase.Refresh(c.Request.Context(), req.RefreshToken, clientInfo(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// LogoutHandler closes the session of the presented refresh token.
// POST /v1/auth/logout
func (h *SessionHandler) LogoutHandler(c *gin.Context) {
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.sessionUseCase.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// MeHandler returns the authenticated user's profile.
// GET /v1/auth/me (requires AuthenticationMiddleware)
func (h *SessionHandler) MeHandler(c *gin.Context) {
	user, ok := GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

func clientInfo(c *gin.Context) authUseCase.ClientInfo {
	return authUseCase.ClientInfo{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}
}
