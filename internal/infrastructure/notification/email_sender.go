// Package notification bridges the identity service to the external
// mail-delivery collaborator. Delivery itself happens out of process; this
// package only hands tokens over.
package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/loreline/identity-service/internal/domain/interfaces"
	"github.com/loreline/identity-service/internal/events/kafka"
)

// KafkaEmailSender publishes password-reset requests onto the event stream
// consumed by the mail service.
type KafkaEmailSender struct {
	producer *kafka.Producer
}

// NewKafkaEmailSender wraps the event producer.
func NewKafkaEmailSender(producer *kafka.Producer) *KafkaEmailSender {
	return &KafkaEmailSender{producer: producer}
}

func (s *KafkaEmailSender) SendPasswordReset(ctx context.Context, email, token string) error {
	return s.producer.Publish(ctx, kafka.PasswordResetRequestedV1, email,
		kafka.PasswordResetRequestedPayload{Email: email, Token: token})
}

var _ interfaces.EmailSender = (*KafkaEmailSender)(nil)

// LogEmailSender is the fallback sender for local runs without Kafka. It logs
// that a reset was requested; the token itself stays out of the logs.
type LogEmailSender struct {
	logger *zap.Logger
}

// NewLogEmailSender wraps the logger.
func NewLogEmailSender(logger *zap.Logger) *LogEmailSender {
	return &LogEmailSender{logger: logger.Named("mail")}
}

func (s *LogEmailSender) SendPasswordReset(ctx context.Context, email, token string) error {
	s.logger.Info("password reset email requested", zap.String("email", email))
	return nil
}

var _ interfaces.EmailSender = (*LogEmailSender)(nil)
