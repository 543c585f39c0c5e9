package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the users table row. PasswordHash is never serialized;
// handlers return users through PublicProfile.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	DisplayName  string     `json:"display_name" db:"display_name"`
	Provider     *string    `json:"provider,omitempty" db:"provider"`
	ProviderID   *string    `json:"provider_id,omitempty" db:"provider_id"`
	Bio          *string    `json:"bio,omitempty" db:"bio"`
	ProfileImage *string    `json:"profile_image,omitempty" db:"profile_image"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// PublicProfile is the user shape returned by the API.
type PublicProfile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Bio          *string   `json:"bio,omitempty"`
	ProfileImage *string   `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public strips credential material from the user record.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}
