package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/domain/repository"
)

type pgxRefreshTokenRepository struct {
	db *DB
}

// NewPgxRefreshTokenRepository creates a new instance of pgxRefreshTokenRepository.
func NewPgxRefreshTokenRepository(db *DB) repository.RefreshTokenRepository {
	return &pgxRefreshTokenRepository{db: db}
}

func (r *pgxRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at, is_revoked, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.runner(ctx).Exec(ctx, query,
		token.Token, token.UserID, token.ExpiresAt, token.IsRevoked, token.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domainErrors.NewDuplicateKeyError("token")
		}
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *pgxRefreshTokenRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT token, user_id, expires_at, is_revoked, created_at
		FROM refresh_tokens
		WHERE token = $1`
	record := &models.RefreshToken{}
	err := r.db.runner(ctx).QueryRow(ctx, query, token).Scan(
		&record.Token, &record.UserID, &record.ExpiresAt, &record.IsRevoked, &record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	return record, nil
}

func (r *pgxRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	// Idempotent: zero rows affected means already revoked or unknown, both
	// fine for logout.
	query := `UPDATE refresh_tokens SET is_revoked = TRUE WHERE token = $1`
	if _, err := r.db.runner(ctx).Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *pgxRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE refresh_tokens SET is_revoked = TRUE WHERE user_id = $1 AND is_revoked = FALSE`
	if _, err := r.db.runner(ctx).Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for user: %w", err)
	}
	return nil
}

func (r *pgxRefreshTokenRepository) Rotate(ctx context.Context, oldToken string, newToken *models.RefreshToken) error {
	return r.db.WithinTransaction(ctx, func(ctx context.Context) error {
		// The conditional update serializes concurrent rotations of the same
		// token: exactly one caller flips is_revoked, the rest see zero rows.
		query := `UPDATE refresh_tokens SET is_revoked = TRUE WHERE token = $1 AND is_revoked = FALSE`
		tag, err := r.db.runner(ctx).Exec(ctx, query, oldToken)
		if err != nil {
			return fmt.Errorf("failed to revoke rotated token: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrRevokedToken
		}
		return r.Create(ctx, newToken)
	})
}

var _ repository.RefreshTokenRepository = (*pgxRefreshTokenRepository)(nil)
