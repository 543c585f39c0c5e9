package security

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loreline/identity-service/internal/config"
	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		AccessSecret:    "access-secret-for-tests",
		RefreshSecret:   "refresh-secret-for-tests",
		AccessTokenTTL:  "15m",
		RefreshTokenTTL: "7d",
		Issuer:          "identity-service-test",
	})
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.IssueAccess(userID, "hermione", []string{"user", "admin"})
	require.NoError(t, err)

	claims, err := svc.Verify(token, AccessToken)
	require.NoError(t, err)

	subject, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, userID, subject)
	assert.Equal(t, "hermione", claims.Username)
	assert.Equal(t, []string{"user", "admin"}, claims.Roles)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, "identity-service-test", claims.Issuer)
}

func TestJWTService_RefreshTokenCarriesOnlySubject(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.IssueRefresh(userID)
	require.NoError(t, err)

	claims, err := svc.Verify(token, RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, claims.Username)
	assert.Empty(t, claims.Roles)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestJWTService_ClassesAreNotInterchangeable(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	access, err := svc.IssueAccess(userID, "ron", nil)
	require.NoError(t, err)
	refresh, err := svc.IssueRefresh(userID)
	require.NoError(t, err)

	_, err = svc.Verify(access, RefreshToken)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)

	_, err = svc.Verify(refresh, AccessToken)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestJWTService_TamperedTokenRejected(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.IssueAccess(uuid.New(), "ginny", nil)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = svc.Verify(tampered, AccessToken)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestJWTService_WrongSecretRejected(t *testing.T) {
	svc := newTestJWTService()
	other := NewJWTService(config.JWTConfig{
		AccessSecret:    "completely-different-secret",
		RefreshSecret:   "another-different-secret",
		AccessTokenTTL:  "15m",
		RefreshTokenTTL: "7d",
	})

	token, err := svc.IssueAccess(uuid.New(), "luna", nil)
	require.NoError(t, err)

	_, err = other.Verify(token, AccessToken)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		AccessSecret:    "access-secret-for-tests",
		RefreshSecret:   "refresh-secret-for-tests",
		AccessTokenTTL:  "0s",
		RefreshTokenTTL: "7d",
	})

	token, err := svc.IssueAccess(uuid.New(), "neville", nil)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	_, err = svc.Verify(token, AccessToken)
	assert.ErrorIs(t, err, domainErrors.ErrExpiredToken)
}

func TestJWTService_MalformedTokenRejected(t *testing.T) {
	svc := newTestJWTService()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(token, AccessToken)
		assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
	}
}
