package models

// TokenPair carries a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult is the response shape for register and login.
type AuthResult struct {
	User         PublicProfile `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
}

// ExternalProfile is the provider-independent shape that every external
// identity provider normalizes its raw profile into.
type ExternalProfile struct {
	Provider    string `json:"provider"`
	ExternalID  string `json:"external_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}
