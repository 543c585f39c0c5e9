package interfaces

import "context"

// EmailSender is the external mail-delivery collaborator. The identity
// service hands reset tokens to it and never embeds them in API responses.
type EmailSender interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}
