package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/loreline/identity-service/internal/domain/models"
)

// PasswordResetRepository defines the interface for one-time reset tokens.
type PasswordResetRepository interface {
	// Create inserts a token record.
	Create(ctx context.Context, token *models.PasswordResetToken) error

	// Find returns errors.ErrResetTokenNotFound when absent.
	Find(ctx context.Context, token string) (*models.PasswordResetToken, error)

	// Delete removes the token. Not an error if already gone.
	Delete(ctx context.Context, token string) error

	// DeleteForUser removes every token owned by the user, keeping the
	// at-most-one-live-token invariant when a new token is minted.
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
}
