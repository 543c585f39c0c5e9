package models

import "github.com/google/uuid"

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the body of POST /auth/login. Login accepts either the
// username or the email in the same field.
type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// RefreshRequest is the body of POST /auth/refresh and /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// PasswordResetRequest is the body of POST /auth/password-reset/request.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ValidateResetTokenRequest is the body of POST /auth/password-reset/validate-token.
type ValidateResetTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// ValidateResetTokenResponse is the body returned by
// POST /auth/password-reset/validate-token.
type ValidateResetTokenResponse struct {
	Valid bool `json:"valid"`
}

// ResetPasswordRequest is the body of POST /auth/password-reset/reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// AccessCheckRequest is the body of POST /access/check. Roles and
// Permission are each optional; empty requirements always pass.
type AccessCheckRequest struct {
	UserID     uuid.UUID `json:"user_id" binding:"required"`
	Roles      []string  `json:"roles"`
	Permission string    `json:"permission"`
}

// AccessCheckResponse is the decision returned by POST /access/check.
type AccessCheckResponse struct {
	Allowed bool `json:"allowed"`
}

// RoleRequest is the body for role create/update.
type RoleRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}
