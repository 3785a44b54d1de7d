// Package notify emits lifecycle notification events. Delivery is
// fire-and-forget: a failed or slow notification never rolls back the state
// transition that triggered it. Composing and sending the actual mail is a
// downstream consumer's job.
package notify

import (
	"context"
	"time"
)

// EventType classifies notification events.
type EventType string

const (
	// EventIdentityConfirmed asks the administrators to review a freshly
	// confirmed registration.
	EventIdentityConfirmed EventType = "identity.confirmed"
	// EventIdentityActivated tells the identity its account is ready and a
	// password can be established.
	EventIdentityActivated EventType = "identity.activated"
)

// Event is a lifecycle notification.
type Event struct {
	Type       EventType `json:"type"`
	IdentityID int64     `json:"identity_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier publishes lifecycle events.
type Notifier interface {
	Emit(ctx context.Context, event Event) error
}
