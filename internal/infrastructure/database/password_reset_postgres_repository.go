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

type pgxPasswordResetRepository struct {
	db *DB
}

// NewPgxPasswordResetRepository creates a new instance of pgxPasswordResetRepository.
func NewPgxPasswordResetRepository(db *DB) repository.PasswordResetRepository {
	return &pgxPasswordResetRepository{db: db}
}

func (r *pgxPasswordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.db.runner(ctx).Exec(ctx, query,
		token.Token, token.UserID, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domainErrors.NewDuplicateKeyError("token")
		}
		return fmt.Errorf("failed to create password reset token: %w", err)
	}
	return nil
}

func (r *pgxPasswordResetRepository) Find(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	query := `
		SELECT token, user_id, expires_at, created_at
		FROM password_reset_tokens
		WHERE token = $1`
	record := &models.PasswordResetToken{}
	err := r.db.runner(ctx).QueryRow(ctx, query, token).Scan(
		&record.Token, &record.UserID, &record.ExpiresAt, &record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("failed to find password reset token: %w", err)
	}
	return record, nil
}

// Delete removes a token row. Zero rows affected is ErrResetTokenNotFound
// so a transaction that lost the race to consume a token rolls back instead
// of spending it a second time.
func (r *pgxPasswordResetRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM password_reset_tokens WHERE token = $1`
	tag, err := r.db.runner(ctx).Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to delete password reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrResetTokenNotFound
	}
	return nil
}

func (r *pgxPasswordResetRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM password_reset_tokens WHERE user_id = $1`
	if _, err := r.db.runner(ctx).Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete password reset tokens for user: %w", err)
	}
	return nil
}

var _ repository.PasswordResetRepository = (*pgxPasswordResetRepository)(nil)
