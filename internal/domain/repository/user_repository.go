package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/loreline/identity-service/internal/domain/models"
)

// UserRepository defines the interface for the external user-record store.
// The identity service reads, creates and updates users but never deletes.
type UserRepository interface {
	// Create persists a new user. Returns *errors.DuplicateKeyError with the
	// conflicting field name when email or username is already taken.
	Create(ctx context.Context, user *models.User) error

	// FindByID returns errors.ErrUserNotFound when no row matches.
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByEmail returns errors.ErrUserNotFound when no row matches.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByUsername returns errors.ErrUserNotFound when no row matches.
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByProvider looks a user up by external identity provider pair.
	FindByProvider(ctx context.Context, provider, providerID string) (*models.User, error)

	// UpdatePasswordHash replaces the user's password hash.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error

	// LinkProvider attaches an external identity provider pair to an
	// existing account.
	LinkProvider(ctx context.Context, id uuid.UUID, provider, providerID string) error

	// UpdateProfile updates display name, bio and profile image.
	UpdateProfile(ctx context.Context, user *models.User) error
}
