package models

import (
	"fmt"
	"time"

	dErrors "cloudid/pkg/domain-errors"
)

// Status is the lifecycle state of an identity record.
//
// Records move forward only: created → confirmed → valid → active. External
// records are adopted from an already-authenticated login and never own a
// managed directory entry; the status is terminal from birth.
type Status string

const (
	StatusCreated   Status = "created"   // registered, waiting for the user to confirm
	StatusConfirmed Status = "confirmed" // user followed the confirmation link
	StatusValid     Status = "valid"     // admin activated, directory entry exists
	StatusActive    Status = "active"    // user established a password
	StatusExternal  Status = "external"  // adopted external login, no managed entry
)

// transitions is the forward-only lifecycle graph. External appears nowhere:
// it can only be assigned at creation.
var transitions = map[Status]map[Status]struct{}{
	StatusCreated:   {StatusConfirmed: {}, StatusValid: {}},
	StatusConfirmed: {StatusValid: {}},
	StatusValid:     {StatusActive: {}},
}

// CanTransitionTo reports whether the lifecycle graph allows s → target.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	_, ok = allowed[target]
	return ok
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusConfirmed, StatusValid, StatusActive, StatusExternal:
		return true
	}
	return false
}

// CountryCode selects the uid namespace and the directory subtree.
type CountryCode string

const (
	CountryES    CountryCode = "ES"
	CountryPT    CountryCode = "PT"
	CountryOther CountryCode = "XX"
)

// ParseCountry maps a raw country value onto a known code. Anything not
// recognized lands in the shared OTHER namespace.
func ParseCountry(raw string) CountryCode {
	switch CountryCode(raw) {
	case CountryES:
		return CountryES
	case CountryPT:
		return CountryPT
	default:
		return CountryOther
	}
}

// Subtree returns the c= component value of the country's directory subtree.
func (c CountryCode) Subtree() string {
	switch c {
	case CountryES:
		return "es"
	case CountryPT:
		return "pt"
	default:
		return "xx"
	}
}

// Identity is the profile side of an account. The authoritative entry used
// for authentication lives in the directory service; a managed entry exists
// iff Status is valid or active.
//
// Invariants:
//   - Email is globally unique and doubles as the directory login name
//   - ConfirmationSecret and ResetSecret are non-empty, unique, assigned
//     exactly once at creation
//   - DirectoryDN is set when a certificate-bound identity exists or once the
//     record is provisioned in the directory
//   - Status only moves forward along the transition graph
type Identity struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Phone        string      `json:"phone,omitempty"`
	Institution  string      `json:"institution,omitempty"`
	Country      CountryCode `json:"country"`
	ResearchArea string      `json:"research_area,omitempty"`
	Description  string      `json:"description,omitempty"`
	Resources    string      `json:"resources,omitempty"`

	DirectoryDN string `json:"directory_dn,omitempty"`

	ConfirmationSecret string `json:"-"`
	ResetSecret        string `json:"-"`

	Status Status `json:"status"`

	// LoginID references the login/session principal owned by the login
	// collaborator. Created disabled at registration, enabled on activation.
	LoginID string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New constructs an identity record in the created state, validating
// construction invariants. Secrets are assigned by the caller (they must be
// collision-checked at insertion time).
func New(email, name string, country CountryCode, confirmationSecret, resetSecret string, now time.Time) (*Identity, error) {
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email cannot be empty")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name cannot be empty")
	}
	if confirmationSecret == "" || resetSecret == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "secrets must be assigned at creation")
	}
	if confirmationSecret == resetSecret {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "confirmation and reset secrets must differ")
	}
	return &Identity{
		Email:              email,
		Name:               name,
		Country:            country,
		ConfirmationSecret: confirmationSecret,
		ResetSecret:        resetSecret,
		Status:             StatusCreated,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// NewExternal constructs an adopted record for an already-authenticated
// external principal. No directory entry is ever created for it.
func NewExternal(email, name, loginID string, confirmationSecret, resetSecret string, now time.Time) (*Identity, error) {
	id, err := New(email, name, CountryOther, confirmationSecret, resetSecret, now)
	if err != nil {
		return nil, err
	}
	id.Status = StatusExternal
	id.LoginID = loginID
	return id, nil
}

// DN renders the distinguished name the record's directory entry lives at.
// The subtree follows the record's actual country code.
func (i *Identity) DN(baseDN string) string {
	return fmt.Sprintf("uid=%s,ou=users,c=%s,%s", i.Email, i.Country.Subtree(), baseDN)
}

// OwnsDirectoryEntry reports whether a managed directory entry must exist for
// this record. External records never own one.
func (i *Identity) OwnsDirectoryEntry() bool {
	return i.Status == StatusValid || i.Status == StatusActive
}

// CanConfirm checks the guard for the confirmation transition.
func (i *Identity) CanConfirm() error {
	if i.Status != StatusCreated {
		return dErrors.New(dErrors.CodeInvalidState, "identity is not awaiting confirmation")
	}
	return nil
}

// CanActivate checks the guard for administrative activation. Confirmation is
// not required: admins may activate straight from created.
func (i *Identity) CanActivate() error {
	if i.Status != StatusCreated && i.Status != StatusConfirmed {
		return dErrors.New(dErrors.CodeInvalidState, "identity cannot be activated from its current state")
	}
	return nil
}

// CanResetPassword checks the guard for the secret-link password reset.
func (i *Identity) CanResetPassword() error {
	if i.Status != StatusValid {
		return dErrors.New(dErrors.CodeInvalidState, "identity is not awaiting password establishment")
	}
	return nil
}
