package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authHTTP "github.com/allisson/datavault/internal/auth/http"
	identityDomain "github.com/allisson/datavault/internal/identity/domain"
	vaultDomain "github.com/allisson/datavault/internal/vault/domain"
	vaultUseCase "github.com/allisson/datavault/internal/vault/usecase"
)

type MockItemUseCase struct {
	mock.Mock
}

func (m *MockItemUseCase) CreateItem(
	ctx context.Context,
	user *identityDomain.User,
	input vaultUseCase.CreateItemInput,
) (*vaultDomain.VaultItem, error) {
	args := m.Called(ctx, user, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.VaultItem), args.Error(1)
}

func (m *MockItemUseCase) GetItem(
	ctx context.Context,
	user *identityDomain.User,
	itemID uuid.UUID,
) (*vaultDomain.VaultItem, error) {
	args := m.Called(ctx, user, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.VaultItem), args.Error(1)
}

func (m *MockItemUseCase) ListItems(
	ctx context.Context,
	user *identityDomain.User,
	filter vaultDomain.ItemFilter,
	page, pageSize int,
) (*vaultUseCase.ItemPage, error) {
	args := m.Called(ctx, user, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultUseCase.ItemPage), args.Error(1)
}

func (m *MockItemUseCase) UpdateItem(
	ctx context.Context,
	user *identityDomain.User,
	itemID uuid.UUID,
	input vaultUseCase.UpdateItemInput,
) (*vaultDomain.VaultItem, error) {
	args := m.Called(ctx, user, itemID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.VaultItem), args.Error(1)
}

func (m *MockItemUseCase) DeleteItem(
	ctx context.Context,
	user *identityDomain.User,
	itemID uuid.UUID,
) (time.Time, error) {
	args := m.Called(ctx, user, itemID)
	return args.Get(0).(time.Time), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser() *identityDomain.User {
	return &identityDomain.User{
		ID:             uuid.Must(uuid.NewV7()),
		GoogleID:       "google-sub-123",
		Email:          "user@example.com",
		EncryptionSalt: strings.Repeat("ab", 32),
	}
}

// injectUser stands in for the authentication middleware and places the user
// in the request context.
func injectUser(user *identityDomain.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Request = c.Request.WithContext(authHTTP.WithUser(c.Request.Context(), user))
		}
		c.Next()
	}
}

func setupItemRouter(uc vaultUseCase.ItemUseCase, user *identityDomain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewVaultItemHandler(uc, testLogger())
	router := gin.New()
	items := router.Group("/v1/vault/items", injectUser(user))
	items.POST("", handler.CreateHandler)
	items.GET("", handler.ListHandler)
	items.GET("/:id", handler.GetHandler)
	items.PATCH("/:id", handler.UpdateHandler)
	items.DELETE("/:id", handler.DeleteHandler)
	return router
}

func testItem(userID uuid.UUID) *vaultDomain.VaultItem {
	now := time.Now().UTC()
	return &vaultDomain.VaultItem{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		Type:      vaultDomain.ItemTypeNote,
		Source:    vaultDomain.ItemSourceManual,
		Title:     "Blood pressure log",
		Content:   "120/80 after morning run",
		Tags:      []string{"health"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestVaultItemHandler_Create(t *testing.T) {
	t.Run("creates item", func(t *testing.T) {
		user := testUser()
		item := testItem(user.ID)
		mockUseCase := &MockItemUseCase{}
		mockUseCase.On("CreateItem", mock.Anything, user, mock.MatchedBy(func(input vaultUseCase.CreateItemInput) bool {
			return input.Type == vaultDomain.ItemTypeNote && input.Content == "120/80 after morning run"
		})).Return(item, nil)

		router := setupItemRouter(mockUseCase, user)
		rec := doJSON(router, http.MethodPost, "/v1/vault/items", map[string]any{
			"type":    "note",
			"source":  "manual",
			"title":   "Blood pressure log",
			"content": "120/80 after morning run",
			"tags":    []string{"health"},
		})

		require.Equal(t, http.StatusCreated, rec.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, item.ID.String(), response["id"])
		assert.Equal(t, "120/80 after morning run", response["content"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("missing content fails validation", func(t *testing.T) {
		user := testUser()
		mockUseCase := &MockItemUseCase{}

		router := setupItemRouter(mockUseCase, user)
		rec := doJSON(router, http.MethodPost, "/v1/vault/items", map[string]any{
			"type": "note",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		mockUseCase.AssertNotCalled(t, "CreateItem")
	})

	t.Run("malformed body", func(t *testing.T) {
		user := testUser()
		mockUseCase := &MockItemUseCase{}

		router := setupItemRouter(mockUseCase, user)
		req := httptest.NewRequest(http.MethodPost, "/v1/vault/items", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		mockUseCase := &MockItemUseCase{}

		router := setupItemRouter(mockUseCase, nil)
		rec := doJSON(router, http.MethodPost, "/v1/vault/items", map[string]any{
			"type":    "note",
			"content": "data",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockUseCase.AssertNotCalled(t, "CreateItem")
	})
}

func TestVaultItemHandler_Get(t *testing.T) {
	t.Run("returns decrypted item", func(t *testing.T) {
		user := testUser()
		item := testItem(user.ID)
		mockUseCase := &MockItemUseCase{}
		mockUseCase.On("GetItem", mock.Anything, user, item.ID).Return(item, nil)

		router := setupItemRouter(mockUseCase, user)
		rec := doJSON(router, http.MethodGet, "/v1/vault/items/"+item.ID.String(), nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "120/80 after morning run", response["content"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		user := testUser()
		mockUseCase := &MockItemUseCase{}
		mockUseCase.On("GetItem", mock.Anything, user, mock.Anything).Return(nil, vaultDomain.ErrItemNotFound)

		router := setupItemRouter(mockUseCase, user)
		rec := doJSON(router, http.MethodGet, "/v1/vault/items/"+uuid.Must(uuid.NewV7()).String(), nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		user := testUser()
		mockUseCase := &MockItemUseCase{}

		router := setupItemRouter(mockUseCase, user)
		rec := doJSON(router, http.MethodGet, "/v1/vault/items/not-a-uuid", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		mockUseCase.AssertNotCalled(t, "GetItem")
	})
}

func TestVaultItemHandler_List(t *testing.T) {
	t.Run("lists with filters", func(t *testing.T) {
		user := testUser()
		item := testItem(user.ID)
		page := &vaultUseCase.ItemPage{
			Items:    []*vaultDomain.VaultItem{item},
			Total:    1,
			Page:     1,
			PageSize: 50,
		}
		mockUseCase := &MockItemUseCase{}
		mockUseCase.On("ListItems", mock.Anything, user, mock.MatchedBy(func(filter vaultDomain.ItemFilter) bool {
			return filter.Type == vaultDomain.ItemTypeNote && len(filter.TagNames) == 1
		}), 1, 50).Return(page, nil)

		router := setupItemRouter(mockUseCase, user)
		rec := doJSON(router, http.MethodGet, "/v1/vault/items?type=note&tag=health", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, float64(1), response["total"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid type filter", func(t *testing.T) {
		user := testUser()
		mockUseCase := &MockItemUseCase{}

		router := setupItemRouter(mockUseCase, user)
		rec := doJSON(router, http.MethodGet, "/v1/vault/items?type=bogus", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		mockUseCase.AssertNotCalled(t, "ListItems")
	})

	t.Run("invalid pagination", func(t *testing.T) {
		user := testUser()
		mockUseCase := &MockItemUseCase{}

		router := setupItemRouter(mockUseCase, user)
		rec := doJSON(router, http.MethodGet, "/v1/vault/items?page=0", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		mockUseCase.AssertNotCalled(t, "ListItems")
	})
}

func TestVaultItemHandler_Update(t *testing.T) {
	t.Run("updates item", func(t *testing.T) {
		user := testUser()
		item := testItem(user.ID)
		item.Title = "Updated title"
		mockUseCase := &MockItemUseCase{}
		mockUseCase.On("UpdateItem", mock.Anything, user, item.ID, mock.MatchedBy(func(input vaultUseCase.UpdateItemInput) bool {
			return input.Title != nil && *input.Title == "Updated title"
		})).Return(item, nil)

		router := setupItemRouter(mockUseCase, user)
		rec := doJSON(router, http.MethodPatch, "/v1/vault/items/"+item.ID.String(), map[string]any{
			"title": "Updated title",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "Updated title", response["title"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		user := testUser()
		mockUseCase := &MockItemUseCase{}
		mockUseCase.On("UpdateItem", mock.Anything, user, mock.Anything, mock.Anything).
			Return(nil, vaultDomain.ErrItemNotFound)

		router := setupItemRouter(mockUseCase, user)
		rec := doJSON(router, http.MethodPatch, "/v1/vault/items/"+uuid.Must(uuid.NewV7()).String(), map[string]any{
			"title": "x",
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestVaultItemHandler_Delete(t *testing.T) {
	t.Run("soft deletes item", func(t *testing.T) {
		user := testUser()
		itemID := uuid.Must(uuid.NewV7())
		deletedAt := time.Now().UTC()
		mockUseCase := &MockItemUseCase{}
		mockUseCase.On("DeleteItem", mock.Anything, user, itemID).Return(deletedAt, nil)

		router := setupItemRouter(mockUseCase, user)
		rec := doJSON(router, http.MethodDelete, "/v1/vault/items/"+itemID.String(), nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "deleted_at")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		user := testUser()
		mockUseCase := &MockItemUseCase{}
		mockUseCase.On("DeleteItem", mock.Anything, user, mock.Anything).
			Return(time.Time{}, vaultDomain.ErrItemNotFound)

		router := setupItemRouter(mockUseCase, user)
		rec := doJSON(router, http.MethodDelete, "/v1/vault/items/"+uuid.Must(uuid.NewV7()).String(), nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
