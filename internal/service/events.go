package service

import (
	"context"

	"github.com/loreline/identity-service/internal/events/kafka"
)

// EventPublisher is satisfied by kafka.Producer. Services publish on a
// best-effort basis; a nil publisher disables events entirely.
type EventPublisher interface {
	Publish(ctx context.Context, eventType kafka.EventType, subject string, payload interface{}) error
}

func publish(ctx context.Context, p EventPublisher, eventType kafka.EventType, subject string, payload interface{}) error {
	if p == nil {
		return nil
	}
	return p.Publish(ctx, eventType, subject, payload)
}
