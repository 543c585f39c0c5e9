package kafka

import "time"

// EventType identifies a published event.
type EventType string

const (
	UserRegisteredV1         EventType = "identity.user.registered.v1"
	UserLoginV1              EventType = "identity.user.login.v1"
	TokenRefreshedV1         EventType = "identity.token.refreshed.v1"
	TokenReuseDetectedV1     EventType = "identity.token.reuse_detected.v1"
	PasswordResetRequestedV1 EventType = "identity.password.reset_requested.v1"
	PasswordResetV1          EventType = "identity.password.reset.v1"
)

// UserEventPayload is the data section for registration and login events.
type UserEventPayload struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenEventPayload is the data section for refresh lifecycle events.
type TokenEventPayload struct {
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PasswordResetRequestedPayload is the data section handed to the mail
// collaborator; it carries the raw token because delivery is its job.
type PasswordResetRequestedPayload struct {
	Email string `json:"email"`
	Token string `json:"token"`
}
