package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/loreline/identity-service/internal/config"
	"github.com/loreline/identity-service/internal/domain/interfaces"
	"github.com/loreline/identity-service/internal/domain/models"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

type githubProvider struct {
	conf *oauth2.Config
}

// NewGitHubProvider builds the GitHub identity provider.
func NewGitHubProvider(cfg config.OAuthProviderConfig) interfaces.ExternalIdentityProvider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"read:user", "user:email"}
	}
	return &githubProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     github.Endpoint,
		},
	}
}

func (p *githubProvider) Name() string { return "github" }

func (p *githubProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *githubProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.conf.Exchange(ctx, code)
}

func (p *githubProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*models.ExternalProfile, error) {
	client := p.conf.Client(ctx, token)

	raw, err := fetchJSON(ctx, client, githubUserURL)
	if err != nil {
		return nil, err
	}
	var profile struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode github profile: %w", err)
	}
	if profile.ID == 0 {
		return nil, fmt.Errorf("github profile missing id")
	}

	email := profile.Email
	if email == "" {
		// GitHub omits the email on the profile when it is private; the
		// emails endpoint carries the verified primary address.
		email, err = p.primaryEmail(ctx, client)
		if err != nil {
			return nil, err
		}
	}

	displayName := profile.Name
	if displayName == "" {
		displayName = profile.Login
	}

	return &models.ExternalProfile{
		Provider:    p.Name(),
		ExternalID:  strconv.FormatInt(profile.ID, 10),
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   profile.AvatarURL,
	}, nil
}

func (p *githubProvider) primaryEmail(ctx context.Context, client *http.Client) (string, error) {
	raw, err := fetchJSON(ctx, client, githubEmailsURL)
	if err != nil {
		return "", err
	}
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.Unmarshal(raw, &emails); err != nil {
		return "", fmt.Errorf("failed to decode github emails: %w", err)
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", fmt.Errorf("github profile has no verified primary email")
}
