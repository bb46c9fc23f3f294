// Package http provides HTTP handlers for the vault API. Handlers read the
// authenticated user from the request context; the user carries the identity
// secret and encryption salt the use case needs to resolve the master key.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/datavault/internal/auth/http"
	apperrors "github.com/allisson/datavault/internal/errors"
	"github.com/allisson/datavault/internal/httputil"
	customValidation "github.com/allisson/datavault/internal/validation"
	vaultDomain "github.com/allisson/datavault/internal/vault/domain"
	"github.com/allisson/datavault/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/datavault/internal/vault/usecase"
)

// VaultItemHandler handles HTTP requests for vault item operations.
type VaultItemHandler struct {
	itemUseCase vaultUseCase.ItemUseCase
	logger      *slog.Logger
}

// NewVaultItemHandler creates a new vault item handler.
func NewVaultItemHandler(itemUseCase vaultUseCase.ItemUseCase, logger *slog.Logger) *VaultItemHandler {
	return &VaultItemHandler{
		itemUseCase: itemUseCase,
		logger:      logger,
	}
}

// CreateHandler creates a new encrypted vault item.
// POST /v1/vault/items
func (h *VaultItemHandler) CreateHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateVaultItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	item, err := h.itemUseCase.CreateItem(c.Request.Context(), user, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapVaultItemToResponse(item))
}

// GetHandler retrieves and decrypts a vault item.
// GET /v1/vault/items/:id
func (h *VaultItemHandler) GetHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	itemID, err := parseIDParam(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	item, err := h.itemUseCase.GetItem(c.Request.Context(), user, itemID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVaultItemToResponse(item))
}

// ListHandler lists the user's vault items with filtering and pagination.
// GET /v1/vault/items?page=N&page_size=N&type=&source=&tag=&search=
func (h *VaultItemHandler) ListHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	page, pageSize, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	filter := vaultDomain.ItemFilter{
		Type:        vaultDomain.ItemType(c.Query("type")),
		Source:      vaultDomain.ItemSource(c.Query("source")),
		TagNames:    c.QueryArray("tag"),
		SearchTitle: c.Query("search"),
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		httputil.HandleErrorGin(c, vaultDomain.ErrInvalidItemType, h.logger)
		return
	}
	if filter.Source != "" && !filter.Source.IsValid() {
		httputil.HandleErrorGin(c, vaultDomain.ErrInvalidItemSource, h.logger)
		return
	}

	result, err := h.itemUseCase.ListItems(c.Request.Context(), user, filter, page, pageSize)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapItemPageToResponse(result))
}

// UpdateHandler updates a vault item, re-encrypting changed content.
// PATCH /v1/vault/items/:id
func (h *VaultItemHandler) UpdateHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	itemID, err := parseIDParam(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateVaultItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	item, err := h.itemUseCase.UpdateItem(c.Request.Context(), user, itemID, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVaultItemToResponse(item))
}

// DeleteHandler soft-deletes a vault item.
// DELETE /v1/vault/items/:id
func (h *VaultItemHandler) DeleteHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	itemID, err := parseIDParam(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	deletedAt, err := h.itemUseCase.DeleteItem(c.Request.Context(), user, itemID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteVaultItemResponse{DeletedAt: deletedAt})
}

func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id parameter: must be a UUID")
	}
	return id, nil
}
