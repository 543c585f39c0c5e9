package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken represents the refresh_tokens table row. The raw token string
// is the primary key; it is only ever looked up by exact match, which is what
// allows revocation of a presented token.
type RefreshToken struct {
	Token     string    `json:"-" db:"token"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	IsRevoked bool      `json:"is_revoked" db:"is_revoked"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Expired reports whether the record is past its expiry at the given instant.
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
