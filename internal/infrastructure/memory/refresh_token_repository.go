package memory

import (
	"context"

	"github.com/google/uuid"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/domain/repository"
)

type refreshRecord struct {
	token models.RefreshToken
}

type refreshTokenRepository struct {
	store *Store
}

// NewRefreshTokenRepository creates an in-memory refresh token repository.
func NewRefreshTokenRepository(store *Store) repository.RefreshTokenRepository {
	return &refreshTokenRepository{store: store}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.createLocked(token)
}

func (r *refreshTokenRepository) createLocked(token *models.RefreshToken) error {
	if _, exists := r.store.refresh[token.Token]; exists {
		return domainErrors.NewDuplicateKeyError("token")
	}
	copied := *token
	r.store.refresh[token.Token] = &refreshRecord{token: copied}
	return nil
}

func (r *refreshTokenRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.refresh[token]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := rec.token
	return &copied, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if rec, ok := r.store.refresh[token]; ok {
		rec.token.IsRevoked = true
	}
	return nil
}

func (r *refreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.refresh {
		if rec.token.UserID == userID {
			rec.token.IsRevoked = true
		}
	}
	return nil
}

func (r *refreshTokenRepository) Rotate(ctx context.Context, oldToken string, newToken *models.RefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.refresh[oldToken]
	if !ok || rec.token.IsRevoked {
		return domainErrors.ErrRevokedToken
	}
	if err := r.createLocked(newToken); err != nil {
		return err
	}
	rec.token.IsRevoked = true
	return nil
}

var _ repository.RefreshTokenRepository = (*refreshTokenRepository)(nil)
