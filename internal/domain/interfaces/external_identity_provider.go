package interfaces

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/loreline/identity-service/internal/domain/models"
)

// ExternalIdentityProvider is one OAuth federation backend (Google, GitHub).
// Providers differ only in endpoints and raw profile shape; every provider
// normalizes to models.ExternalProfile so the account-linking logic is shared.
type ExternalIdentityProvider interface {
	// Name returns the provider key used in routes and user records.
	Name() string

	// AuthCodeURL builds the provider consent-page URL for the given state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for a provider token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchProfile retrieves and normalizes the provider profile.
	FetchProfile(ctx context.Context, token *oauth2.Token) (*models.ExternalProfile, error)
}
