package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/datavault/internal/auth/http"
	apperrors "github.com/allisson/datavault/internal/errors"
	"github.com/allisson/datavault/internal/httputil"
	"github.com/allisson/datavault/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/datavault/internal/vault/usecase"
)

// TagHandler handles HTTP requests for tag operations.
type TagHandler struct {
	tagUseCase vaultUseCase.TagUseCase
	logger     *slog.Logger
}

// NewTagHandler creates a new tag handler.
func NewTagHandler(tagUseCase vaultUseCase.TagUseCase, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		tagUseCase: tagUseCase,
		logger:     logger,
	}
}

// CreateHandler creates a new tag.
// POST /v1/vault/tags
func (h *TagHandler) CreateHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	tag, err := h.tagUseCase.CreateTag(c.Request.Context(), user.ID, vaultUseCase.CreateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTagToResponse(tag))
}

// ListHandler lists the user's tags sorted by name.
// GET /v1/vault/tags
func (h *TagHandler) ListHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	tags, err := h.tagUseCase.ListTags(c.Request.Context(), user.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	responses := make([]dto.TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, dto.MapTagToResponse(tag))
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateHandler updates a tag's name or color.
// PATCH /v1/vault/tags/:id
func (h *TagHandler) UpdateHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	tagID, err := parseIDParam(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	tag, err := h.tagUseCase.UpdateTag(c.Request.Context(), user.ID, tagID, vaultUseCase.UpdateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTagToResponse(tag))
}

// DeleteHandler removes a tag.
// DELETE /v1/vault/tags/:id
func (h *TagHandler) DeleteHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	tagID, err := parseIDParam(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.tagUseCase.DeleteTag(c.Request.Context(), user.ID, tagID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
