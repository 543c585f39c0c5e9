package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/interfaces"
	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/domain/repository"
	"github.com/loreline/identity-service/internal/events/kafka"
	"github.com/loreline/identity-service/internal/infrastructure/security"
	"github.com/loreline/identity-service/internal/utils/metrics"
	"github.com/loreline/identity-service/internal/utils/random"
)

// ResetRequestedMessage is returned for every reset request regardless of
// whether the email matched an account, so the endpoint cannot be used to
// enumerate registered addresses.
const ResetRequestedMessage = "If the email is registered, a password reset link has been sent."

// PasswordResetService implements the forgot-password flow: minting opaque
// one-time tokens, validating them, and consuming them to set a new password.
type PasswordResetService struct {
	userRepo    repository.UserRepository
	resetRepo   repository.PasswordResetRepository
	refreshRepo repository.RefreshTokenRepository
	txManager   repository.TxManager
	hasher      *security.PasswordHasher
	sender      interfaces.EmailSender
	publisher   EventPublisher
	tokenTTL    time.Duration
	tokenBytes  int
	logger      *zap.Logger
}

// NewPasswordResetService creates a new PasswordResetService.
func NewPasswordResetService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	refreshRepo repository.RefreshTokenRepository,
	txManager repository.TxManager,
	hasher *security.PasswordHasher,
	sender interfaces.EmailSender,
	publisher EventPublisher,
	tokenTTL time.Duration,
	tokenBytes int,
	logger *zap.Logger,
) *PasswordResetService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	if tokenBytes <= 0 {
		tokenBytes = 32
	}
	return &PasswordResetService{
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		refreshRepo: refreshRepo,
		txManager:   txManager,
		hasher:      hasher,
		sender:      sender,
		publisher:   publisher,
		tokenTTL:    tokenTTL,
		tokenBytes:  tokenBytes,
		logger:      logger.Named("password_reset_service"),
	}
}

// RequestReset mints a reset token for the account behind email and hands it
// to the email sender. The returned message is identical whether or not the
// email matched; only infrastructure failures surface as errors.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) (string, error) {
	metrics.PasswordResetRequestsTotal.Inc()

	// Accounts store emails lowercased.
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return ResetRequestedMessage, nil
		}
		return "", err
	}

	token, err := random.Hex(s.tokenBytes)
	if err != nil {
		return "", err
	}

	now := time.Now()
	record := &models.PasswordResetToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.tokenTTL),
		CreatedAt: now,
	}

	// Minting replaces any previous live token for the user.
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.resetRepo.DeleteForUser(ctx, user.ID); err != nil {
			return err
		}
		return s.resetRepo.Create(ctx, record)
	})
	if err != nil {
		return "", err
	}

	if err := s.sender.SendPasswordReset(ctx, user.Email, token); err != nil {
		s.logger.Error("failed to send password reset email",
			zap.String("user_id", user.ID.String()), zap.Error(err))
		return "", err
	}

	return ResetRequestedMessage, nil
}

// ValidateToken checks a reset token without consuming it. Expired rows are
// deleted on sight rather than by a background sweeper.
func (s *PasswordResetService) ValidateToken(ctx context.Context, token string) error {
	record, err := s.resetRepo.Find(ctx, token)
	if err != nil {
		return err
	}
	if record.Expired(time.Now()) {
		if derr := s.resetRepo.Delete(ctx, token); derr != nil && !domainErrors.IsNotFound(derr) {
			s.logger.Warn("failed to delete expired reset token", zap.Error(derr))
		}
		return domainErrors.ErrExpiredToken
	}
	return nil
}

// ResetPassword consumes a reset token: sets the new password, deletes the
// token and revokes every refresh token the user holds, all in one
// transaction. A token can therefore be spent exactly once even under
// concurrent submissions.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return domainErrors.ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	record, err := s.resetRepo.Find(ctx, token)
	if err != nil {
		return err
	}
	if record.Expired(time.Now()) {
		if derr := s.resetRepo.Delete(ctx, token); derr != nil && !domainErrors.IsNotFound(derr) {
			s.logger.Warn("failed to delete expired reset token", zap.Error(derr))
		}
		return domainErrors.ErrExpiredToken
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.UpdatePasswordHash(ctx, record.UserID, hash); err != nil {
			return err
		}
		// Delete fails on a missing row, so of two concurrent submissions
		// of the same token only the one whose delete lands commits.
		if err := s.resetRepo.Delete(ctx, token); err != nil {
			return err
		}
		return s.refreshRepo.RevokeAllForUser(ctx, record.UserID)
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrResetTokenNotFound) {
			return domainErrors.ErrResetTokenNotFound
		}
		return err
	}

	if err := publish(ctx, s.publisher, kafka.PasswordResetV1, record.UserID.String(), kafka.UserEventPayload{
		UserID: record.UserID.String(),
	}); err != nil {
		s.logger.Warn("failed to publish password reset event", zap.Error(err))
	}

	return nil
}
