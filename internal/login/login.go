// Package login is the boundary to the login/session collaborator that owns
// session principals. The lifecycle engine only creates disabled placeholders
// at registration and flips the enabled flag on activation; credentials and
// sessions are entirely the collaborator's business.
package login

import "context"

// Account is a login principal as this system sees it.
type Account struct {
	ID       string
	Username string
	Enabled  bool
}

// Accounts is the collaborator interface.
type Accounts interface {
	// CreateDisabled provisions a placeholder principal for the username,
	// returning the existing principal when one is already present.
	CreateDisabled(ctx context.Context, username string) (Account, error)
	// SetEnabled flips the enabled flag.
	SetEnabled(ctx context.Context, id string, enabled bool) error
	// Find returns the principal or sentinel.ErrNotFound.
	Find(ctx context.Context, id string) (Account, error)
	// Delete removes the principal. Missing principals are not an error:
	// record teardown must stay idempotent.
	Delete(ctx context.Context, id string) error
}
