// Package directory wraps the LDAP operations the lifecycle engine needs.
//
// The client is protocol-precise but policy-free: it maps LDAP result codes
// onto the sentinel error taxonomy and never retries. Retry policy belongs to
// the orchestrator, which knows which errors signal "already done" on a
// replayed transition.
package directory

import "context"

// Client is the directory service boundary.
//
// Error contract (wrapped sentinel errors from pkg/platform/sentinel):
//   - BindAs: ErrAuthFailed on a rejected secret, ErrUnavailable on transport failure
//   - CreateEntry: ErrConflict when an entry already exists at dn
//   - DeleteEntry: ErrNotFound when no entry exists at dn
//   - SetPassword: service-principal overwrite, old password not needed
//   - ChangePassword: binds as the identity first, fails closed with
//     ErrAuthFailed when the old secret is wrong
type Client interface {
	BindAs(ctx context.Context, dn, secret string) error
	CreateEntry(ctx context.Context, dn string, entry Entry) error
	DeleteEntry(ctx context.Context, dn string) error
	SetPassword(ctx context.Context, dn, newSecret string) error
	ChangePassword(ctx context.Context, dn, oldSecret, newSecret string) error
}
