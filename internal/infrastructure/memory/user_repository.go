package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/domain/repository"
)

type userRecord struct {
	user models.User
}

type userRepository struct {
	store *Store
}

// NewUserRepository creates an in-memory user repository over the store.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.users {
		if rec.user.Email == user.Email {
			return domainErrors.NewDuplicateKeyError("email")
		}
		if rec.user.Username == user.Username {
			return domainErrors.NewDuplicateKeyError("username")
		}
	}
	copied := *user
	r.store.users[user.ID.String()] = &userRecord{user: copied}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.users[id.String()]
	if !ok {
		return nil, domainErrors.ErrUserNotFound
	}
	copied := rec.user
	return &copied, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool { return u.Email == email })
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool { return u.Username == username })
}

func (r *userRepository) FindByProvider(ctx context.Context, provider, providerID string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool {
		return u.Provider != nil && *u.Provider == provider &&
			u.ProviderID != nil && *u.ProviderID == providerID
	})
}

func (r *userRepository) findBy(match func(*models.User) bool) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.users {
		if match(&rec.user) {
			copied := rec.user
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrUserNotFound
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.users[id.String()]
	if !ok {
		return domainErrors.ErrUserNotFound
	}
	rec.user.PasswordHash = passwordHash
	rec.user.UpdatedAt = time.Now()
	return nil
}

func (r *userRepository) LinkProvider(ctx context.Context, id uuid.UUID, provider, providerID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.users[id.String()]
	if !ok {
		return domainErrors.ErrUserNotFound
	}
	rec.user.Provider = &provider
	rec.user.ProviderID = &providerID
	rec.user.UpdatedAt = time.Now()
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.users[user.ID.String()]
	if !ok {
		return domainErrors.ErrUserNotFound
	}
	rec.user.DisplayName = user.DisplayName
	rec.user.Bio = user.Bio
	rec.user.ProfileImage = user.ProfileImage
	rec.user.UpdatedAt = time.Now()
	return nil
}

var _ repository.UserRepository = (*userRepository)(nil)
