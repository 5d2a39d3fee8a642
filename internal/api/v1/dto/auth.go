// Package dto holds the request and response shapes of the HTTP API.
// Requests normalize and validate themselves; handlers never see raw input.
package dto

import (
	"strings"
	"time"

	"clipscribe/internal/api/errors"
	"clipscribe/internal/app/model"
)

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Validate normalizes the email to lowercase and enforces the password
// length floor.
func (r *RegisterRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)

	if r.Email == "" || r.Password == "" {
		return errors.NewValidationError("Email and password are required")
	}
	if len(r.Password) < 6 {
		return errors.NewValidationError("Password must be at least 6 characters")
	}
	return nil
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if r.Email == "" || r.Password == "" {
		return errors.NewValidationError("Email and password are required")
	}
	return nil
}

// ProfileUpdateRequest updates contact fields. Absent fields are left
// untouched, so nil pointers distinguish "not sent" from "cleared".
type ProfileUpdateRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	PhoneCarrier *string `json:"phone_carrier"`
	WhatsApp     *string `json:"whatsapp"`
}

// ApplyTo copies the provided fields onto the user, trimming whitespace.
func (r *ProfileUpdateRequest) ApplyTo(u *model.User) {
	if r.Name != nil {
		u.Name = strings.TrimSpace(*r.Name)
	}
	if r.Phone != nil {
		u.Phone = strings.TrimSpace(*r.Phone)
	}
	if r.PhoneCarrier != nil {
		u.PhoneCarrier = strings.TrimSpace(*r.PhoneCarrier)
	}
	if r.WhatsApp != nil {
		u.WhatsApp = strings.TrimSpace(*r.WhatsApp)
	}
}

// UserSummary is the minimal account view returned on registration.
type UserSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewUserSummary builds a UserSummary from a user.
func NewUserSummary(u *model.User) UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}

// UserResponse is the full account view including contact fields.
type UserResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	PhoneCarrier string `json:"phone_carrier"`
	WhatsApp     string `json:"whatsapp"`
}

// NewUserResponse builds a UserResponse from a user.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		PhoneCarrier: u.PhoneCarrier,
		WhatsApp:     u.WhatsApp,
	}
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
