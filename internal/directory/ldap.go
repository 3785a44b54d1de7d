package directory

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-ldap/ldap/v3"

	"cloudid/internal/platform/config"
	"cloudid/pkg/platform/sentinel"
)

// LDAP implements Client against a real directory server. The configuration
// value is immutable after construction; every call acquires its own
// connection and releases it on all exit paths.
type LDAP struct {
	cfg config.Directory
}

var _ Client = (*LDAP)(nil)

// NewLDAP constructs the client. The service principal in cfg is used for
// administrative writes; bind verification uses the target identity itself.
func NewLDAP(cfg config.Directory) *LDAP {
	return &LDAP{cfg: cfg}
}

// BindAs performs a simple bind as dn with the presented secret. Success is
// the directory's verdict that the secret is currently correct; no comparable
// hash ever crosses the wire to us.
func (c *LDAP) BindAs(ctx context.Context, dn, secret string) error {
	// An empty secret would be an unauthenticated bind, which the protocol
	// treats as success. Fail closed instead.
	if secret == "" {
		return fmt.Errorf("empty secret for %s: %w", dn, sentinel.ErrAuthFailed)
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Bind(dn, secret); err != nil {
		return translateLDAPError("bind", dn, err)
	}
	return nil
}

// CreateEntry adds the account object at dn. An existing entry surfaces as
// ErrConflict so the orchestrator can treat a replayed activation as done.
func (c *LDAP) CreateEntry(ctx context.Context, dn string, entry Entry) error {
	conn, err := c.dialAsService(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	req := ldap.NewAddRequest(dn, nil)
	for _, attr := range entry.attributes() {
		req.Attribute(attr.name, attr.values)
	}
	if err := conn.Add(req); err != nil {
		return translateLDAPError("add", dn, err)
	}
	return nil
}

// DeleteEntry removes the entry at dn. A missing entry surfaces as
// ErrNotFound so a replayed teardown is recognizable as already done.
func (c *LDAP) DeleteEntry(ctx context.Context, dn string) error {
	conn, err := c.dialAsService(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Del(ldap.NewDelRequest(dn, nil)); err != nil {
		return translateLDAPError("delete", dn, err)
	}
	return nil
}

// SetPassword overwrites the entry's password as the service principal. Used
// by the reset flow where the old password is unknown by design.
func (c *LDAP) SetPassword(ctx context.Context, dn, newSecret string) error {
	conn, err := c.dialAsService(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return c.replacePassword(conn, dn, newSecret)
}

// ChangePassword binds as the identity with the old secret first, then
// replaces the password. This is the only path a non-administrator can use.
func (c *LDAP) ChangePassword(ctx context.Context, dn, oldSecret, newSecret string) error {
	if oldSecret == "" {
		return fmt.Errorf("empty secret for %s: %w", dn, sentinel.ErrAuthFailed)
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Bind(dn, oldSecret); err != nil {
		return translateLDAPError("bind", dn, err)
	}
	return c.replacePassword(conn, dn, newSecret)
}

func (c *LDAP) replacePassword(conn *ldap.Conn, dn, newSecret string) error {
	req := ldap.NewModifyRequest(dn, nil)
	req.Replace("userPassword", []string{newSecret})
	if err := conn.Modify(req); err != nil {
		return translateLDAPError("modify", dn, err)
	}
	return nil
}

// dial opens a connection bounded by the configured timeout. The caller owns
// the connection and must close it.
func (c *LDAP) dial(ctx context.Context) (*ldap.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("directory dial: %w: %w", sentinel.ErrUnavailable, err)
	}

	conn, err := ldap.DialURL(c.cfg.URL, ldap.DialWithDialer(&net.Dialer{Timeout: c.cfg.DialTimeout}))
	if err != nil {
		return nil, fmt.Errorf("directory dial %s: %w: %w", c.cfg.URL, sentinel.ErrUnavailable, err)
	}
	conn.SetTimeout(c.cfg.DialTimeout)

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < c.cfg.DialTimeout {
			conn.SetTimeout(remaining)
		}
	}
	return conn, nil
}

// dialAsService opens a connection authenticated as the service principal.
func (c *LDAP) dialAsService(ctx context.Context) (*ldap.Conn, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	if err := conn.Bind(c.cfg.BindDN, c.cfg.BindPassword); err != nil {
		conn.Close()
		return nil, translateLDAPError("service bind", c.cfg.BindDN, err)
	}
	return conn, nil
}

// translateLDAPError maps protocol result codes onto the sentinel taxonomy.
// Anything unrecognized is a transport-level failure.
func translateLDAPError(op, dn string, err error) error {
	switch {
	case ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials):
		return fmt.Errorf("directory %s %s: %w", op, dn, sentinel.ErrAuthFailed)
	case ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists):
		return fmt.Errorf("directory %s %s: %w", op, dn, sentinel.ErrConflict)
	case ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject):
		return fmt.Errorf("directory %s %s: %w", op, dn, sentinel.ErrNotFound)
	default:
		return fmt.Errorf("directory %s %s: %w: %w", op, dn, sentinel.ErrUnavailable, err)
	}
}
