package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/loreline/identity-service/internal/config"
	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
)

// TokenClass distinguishes the two bearer token classes. Each class is signed
// with its own secret, so a leaked access secret cannot forge refresh tokens.
type TokenClass string

const (
	AccessToken  TokenClass = "access"
	RefreshToken TokenClass = "refresh"
)

// Claims is the fixed JWT payload. Any additional claim must become a named
// field here; there is no open claim map.
type Claims struct {
	jwt.RegisteredClaims
	Username  string     `json:"username,omitempty"`
	Roles     []string   `json:"roles,omitempty"`
	TokenType TokenClass `json:"token_type"`
}

// JWTService signs and verifies HS256 tokens for both classes.
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewJWTService builds the codec from configuration. TTL strings are parsed
// with ParseTTL and therefore never fail.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     ParseTTL(cfg.AccessTokenTTL),
		refreshTTL:    ParseTTL(cfg.RefreshTokenTTL),
		issuer:        cfg.Issuer,
	}
}

// AccessTTL returns the configured access token lifetime.
func (s *JWTService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (s *JWTService) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess signs an access token carrying subject, username and roles.
func (s *JWTService) IssueAccess(userID uuid.UUID, username string, roles []string) (string, error) {
	return s.issue(userID, username, roles, AccessToken, s.accessSecret, s.accessTTL)
}

// IssueRefresh signs a refresh token carrying only the subject.
func (s *JWTService) IssueRefresh(userID uuid.UUID) (string, error) {
	return s.issue(userID, "", nil, RefreshToken, s.refreshSecret, s.refreshTTL)
}

func (s *JWTService) issue(userID uuid.UUID, username string, roles []string, class TokenClass, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
		Username:  username,
		Roles:     roles,
		TokenType: class,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify parses the token against the secret of the given class. Tampered,
// malformed and wrong-class tokens all come back as ErrInvalidToken; only
// expiry is distinguished as ErrExpiredToken.
func (s *JWTService) Verify(tokenString string, class TokenClass) (*Claims, error) {
	secret := s.accessSecret
	if class == RefreshToken {
		secret = s.refreshSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, domainErrors.ErrInvalidToken
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainErrors.ErrExpiredToken
		}
		return nil, domainErrors.ErrInvalidToken
	}
	if !token.Valid || claims.TokenType != class {
		return nil, domainErrors.ErrInvalidToken
	}
	return claims, nil
}

// Subject returns the claims subject parsed as a user ID.
func (c *Claims) SubjectID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, domainErrors.ErrInvalidToken
	}
	return id, nil
}
