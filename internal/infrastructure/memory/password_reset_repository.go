package memory

import (
	"context"

	"github.com/google/uuid"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/domain/repository"
)

type resetRecord struct {
	token models.PasswordResetToken
}

type passwordResetRepository struct {
	store *Store
}

// NewPasswordResetRepository creates an in-memory reset token repository.
func NewPasswordResetRepository(store *Store) repository.PasswordResetRepository {
	return &passwordResetRepository{store: store}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.resetTokens[token.Token]; exists {
		return domainErrors.NewDuplicateKeyError("token")
	}
	copied := *token
	r.store.resetTokens[token.Token] = &resetRecord{token: copied}
	return nil
}

func (r *passwordResetRepository) Find(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.resetTokens[token]
	if !ok {
		return nil, domainErrors.ErrResetTokenNotFound
	}
	copied := rec.token
	return &copied, nil
}

func (r *passwordResetRepository) Delete(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.resetTokens[token]; !ok {
		return domainErrors.ErrResetTokenNotFound
	}
	delete(r.store.resetTokens, token)
	return nil
}

func (r *passwordResetRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for key, rec := range r.store.resetTokens {
		if rec.token.UserID == userID {
			delete(r.store.resetTokens, key)
		}
	}
	return nil
}

var _ repository.PasswordResetRepository = (*passwordResetRepository)(nil)
