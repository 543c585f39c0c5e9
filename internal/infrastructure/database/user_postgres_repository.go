package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/domain/repository"
)

const pgUniqueViolation = "23505"

type pgxUserRepository struct {
	db *DB
}

// NewPgxUserRepository creates a new instance of pgxUserRepository.
func NewPgxUserRepository(db *DB) repository.UserRepository {
	return &pgxUserRepository{db: db}
}

const userColumns = `id, email, username, password_hash, display_name, provider, provider_id, bio, profile_image, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.DisplayName,
		&user.Provider, &user.ProviderID, &user.Bio, &user.ProfileImage,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

func (r *pgxUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.runner(ctx).Exec(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.DisplayName,
		user.Provider, user.ProviderID, user.Bio, user.ProfileImage,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// Constraint names follow the users_<column>_key convention.
			switch {
			case strings.Contains(pgErr.ConstraintName, "email"):
				return domainErrors.NewDuplicateKeyError("email")
			case strings.Contains(pgErr.ConstraintName, "username"):
				return domainErrors.NewDuplicateKeyError("username")
			default:
				return domainErrors.ErrConflict
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *pgxUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.runner(ctx).QueryRow(ctx, query, id))
}

func (r *pgxUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.runner(ctx).QueryRow(ctx, query, email))
}

func (r *pgxUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.runner(ctx).QueryRow(ctx, query, username))
}

func (r *pgxUserRepository) FindByProvider(ctx context.Context, provider, providerID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE provider = $1 AND provider_id = $2`
	return scanUser(r.db.runner(ctx).QueryRow(ctx, query, provider, providerID))
}

func (r *pgxUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.db.runner(ctx).Exec(ctx, query, id, passwordHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func (r *pgxUserRepository) LinkProvider(ctx context.Context, id uuid.UUID, provider, providerID string) error {
	query := `UPDATE users SET provider = $2, provider_id = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.db.runner(ctx).Exec(ctx, query, id, provider, providerID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to link provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func (r *pgxUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET display_name = $2, bio = $3, profile_image = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.db.runner(ctx).Exec(ctx, query,
		user.ID, user.DisplayName, user.Bio, user.ProfileImage, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

var _ repository.UserRepository = (*pgxUserRepository)(nil)
