// Package dto provides data transfer objects for the session HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"
)

// LoginRequest carries a verified OAuth profile. This endpoint sits behind
// the gateway that performs the OAuth wire exchange and identity
// verification; the values here are trusted.
type LoginRequest struct {
	GoogleID   string `json:"google_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	PictureURL string `json:"picture_url"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GoogleID, validation.Required.Error("google_id is required")),
		validation.Field(&r.Email, validation.Required.Error("email is required")),
	)
}

// RefreshRequest carries the refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate checks if the refresh request is valid.
func (r *RefreshRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken, validation.Required.Error("refresh_token is required")),
	)
}

// LogoutRequest carries the refresh token of the session to close.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate checks if the logout request is valid.
func (r *LogoutRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken, validation.Required.Error("refresh_token is required")),
	)
}
