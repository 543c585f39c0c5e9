package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/loreline/identity-service/internal/domain/models"
)

// RefreshTokenRepository defines the interface for the refresh token store.
// A record moves Active -> Revoked once; expiry is derived from expires_at,
// not stored.
type RefreshTokenRepository interface {
	// Create inserts an active record.
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find returns the record for the exact token string, revoked or not.
	// Returns errors.ErrNotFound when absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Revoke marks the token revoked. Idempotent: revoking an already-revoked
	// or unknown token is not an error.
	Revoke(ctx context.Context, token string) error

	// RevokeAllForUser marks every record owned by the user revoked.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error

	// Rotate revokes oldToken and inserts newToken in one transaction. The
	// revoke half is conditional on the old record still being active, so two
	// concurrent rotations of the same token cannot both succeed; the loser
	// gets errors.ErrRevokedToken and the insert never happens.
	Rotate(ctx context.Context, oldToken string, newToken *models.RefreshToken) error
}
