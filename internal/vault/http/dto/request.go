// Package dto provides data transfer objects for the vault HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	vaultDomain "github.com/allisson/datavault/internal/vault/domain"
	vaultUseCase "github.com/allisson/datavault/internal/vault/usecase"
)

// CreateVaultItemRequest contains the parameters for creating a vault item.
type CreateVaultItemRequest struct {
	Type     string         `json:"type"`
	Source   string         `json:"source"`
	SourceID string         `json:"source_id"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Tags     []string       `json:"tags"`
}

// Validate checks if the create vault item request is valid. Type and source
// values are checked downstream against the supported sets.
func (r *CreateVaultItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
		),
		validation.Field(&r.Title,
			validation.Length(0, 500).Error("title must be at most 500 characters"),
		),
		validation.Field(&r.SourceID,
			validation.Length(0, 255).Error("source_id must be at most 255 characters"),
		),
	)
}

// ToInput converts the request to a use case input.
func (r *CreateVaultItemRequest) ToInput() vaultUseCase.CreateItemInput {
	return vaultUseCase.CreateItemInput{
		Type:     vaultDomain.ItemType(r.Type),
		Source:   vaultDomain.ItemSource(r.Source),
		SourceID: r.SourceID,
		Title:    r.Title,
		Content:  r.Content,
		Metadata: r.Metadata,
		Tags:     r.Tags,
	}
}

// UpdateVaultItemRequest contains the parameters for updating a vault item.
// Nil fields are left unchanged.
type UpdateVaultItemRequest struct {
	Type     *string        `json:"type"`
	Title    *string        `json:"title"`
	Content  *string        `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Tags     []string       `json:"tags"`
}

// Validate checks if the update vault item request is valid.
func (r *UpdateVaultItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title,
			validation.Length(0, 500).Error("title must be at most 500 characters"),
		),
	)
}

// ToInput converts the request to a use case input.
func (r *UpdateVaultItemRequest) ToInput() vaultUseCase.UpdateItemInput {
	input := vaultUseCase.UpdateItemInput{
		Title:    r.Title,
		Content:  r.Content,
		Metadata: r.Metadata,
		Tags:     r.Tags,
	}
	if r.Type != nil {
		itemType := vaultDomain.ItemType(*r.Type)
		input.Type = &itemType
	}
	return input
}

// CreateTagRequest contains the parameters for creating a tag.
type CreateTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Validate checks if the create tag request is valid. Name and color rules
// are enforced again by the use case.
func (r *CreateTagRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
		),
	)
}

// UpdateTagRequest contains the parameters for updating a tag. Nil fields
// are left unchanged.
type UpdateTagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}
