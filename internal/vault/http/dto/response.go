package dto

import (
	"time"

	vaultDomain "github.com/allisson/datavault/internal/vault/domain"
	vaultUseCase "github.com/allisson/datavault/internal/vault/usecase"
)

// VaultItemResponse represents a decrypted vault item in API responses.
// Content and metadata are plaintext here; the API must be served over HTTPS.
type VaultItemResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Source    string         `json:"source"`
	SourceID  string         `json:"source_id,omitempty"`
	Title     string         `json:"title,omitempty"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Tags      []string       `json:"tags"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// MapVaultItemToResponse converts a decrypted domain item to an API response.
func MapVaultItemToResponse(item *vaultDomain.VaultItem) VaultItemResponse {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	return VaultItemResponse{
		ID:        item.ID.String(),
		Type:      string(item.Type),
		Source:    string(item.Source),
		SourceID:  item.SourceID,
		Title:     item.Title,
		Content:   item.Content,
		Metadata:  item.Metadata,
		Tags:      tags,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// ListVaultItemsResponse is one page of vault items.
type ListVaultItemsResponse struct {
	Items    []VaultItemResponse `json:"items"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	HasMore  bool                `json:"has_more"`
}

// MapItemPageToResponse converts a use case page to an API response.
func MapItemPageToResponse(page *vaultUseCase.ItemPage) ListVaultItemsResponse {
	items := make([]VaultItemResponse, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, MapVaultItemToResponse(item))
	}
	return ListVaultItemsResponse{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
		HasMore:  page.HasMore,
	}
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MapTagToResponse converts a domain tag to an API response.
func MapTagToResponse(tag *vaultDomain.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID.String(),
		Name:      tag.Name,
		Color:     tag.Color,
		CreatedAt: tag.CreatedAt,
	}
}

// DeleteVaultItemResponse confirms a soft delete.
type DeleteVaultItemResponse struct {
	DeletedAt time.Time `json:"deleted_at"`
}
