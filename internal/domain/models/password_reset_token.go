package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken represents the password_reset_tokens table row. At most
// one live token exists per user; creating a new one deletes the previous.
type PasswordResetToken struct {
	Token     string    `json:"-" db:"token"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
