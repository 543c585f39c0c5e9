package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/domain/repository"
)

type pgxPermissionRepository struct {
	db *DB
}

// NewPgxPermissionRepository creates a new instance of pgxPermissionRepository.
func NewPgxPermissionRepository(db *DB) repository.PermissionRepository {
	return &pgxPermissionRepository{db: db}
}

func scanPermission(row pgx.Row) (*models.Permission, error) {
	p := &models.Permission{}
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("failed to scan permission: %w", err)
	}
	return p, nil
}

func (r *pgxPermissionRepository) List(ctx context.Context) ([]models.Permission, error) {
	query := `SELECT id, name, description, created_at FROM permissions ORDER BY name`
	rows, err := r.db.runner(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	var perms []models.Permission
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *pgxPermissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Permission, error) {
	query := `SELECT id, name, description, created_at FROM permissions WHERE id = $1`
	return scanPermission(r.db.runner(ctx).QueryRow(ctx, query, id))
}

func (r *pgxPermissionRepository) FindByName(ctx context.Context, name string) (*models.Permission, error) {
	query := `SELECT id, name, description, created_at FROM permissions WHERE name = $1`
	return scanPermission(r.db.runner(ctx).QueryRow(ctx, query, name))
}

var _ repository.PermissionRepository = (*pgxPermissionRepository)(nil)
