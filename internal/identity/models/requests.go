package models

import (
	"strings"

	"github.com/asaskevich/govalidator"

	dErrors "cloudid/pkg/domain-errors"
)

// RegisterRequest carries the registration form fields. Country defaults to
// ES like the original deployment; unknown values land in the shared OTHER
// namespace.
type RegisterRequest struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Institution  string `json:"institution"`
	Country      string `json:"country"`
	ResearchArea string `json:"research_area"`
	Description  string `json:"description"`
	Resources    string `json:"resources"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Institution = strings.TrimSpace(r.Institution)
	r.Country = strings.ToUpper(strings.TrimSpace(r.Country))
	if r.Country == "" {
		r.Country = string(CountryES)
	}
	r.ResearchArea = strings.TrimSpace(r.ResearchArea)
}

func (r *RegisterRequest) Validate() error {
	if !govalidator.StringLength(r.Email, "3", "254") || !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid email")
	}
	if len(r.Name) > 50 {
		return dErrors.New(dErrors.CodeInvalidInput, "name must be 50 characters or less")
	}
	if len(r.Phone) > 30 {
		return dErrors.New(dErrors.CodeInvalidInput, "phone must be 30 characters or less")
	}
	if len(r.Institution) > 50 {
		return dErrors.New(dErrors.CodeInvalidInput, "institution must be 50 characters or less")
	}
	return nil
}

// ConfirmRequest authorizes the confirmation transition with the secret
// delivered in the confirmation link.
type ConfirmRequest struct {
	Secret string `json:"secret"`
}

func (r *ConfirmRequest) Validate() error {
	if !govalidator.IsHexadecimal(r.Secret) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid confirmation secret")
	}
	return nil
}

// ResetPasswordRequest establishes the first password (or replaces a lost
// one) through the reset link secret.
type ResetPasswordRequest struct {
	Secret      string `json:"secret"`
	NewPassword string `json:"new_password"`
}

func (r *ResetPasswordRequest) Validate() error {
	if !govalidator.IsHexadecimal(r.Secret) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid reset secret")
	}
	if !govalidator.StringLength(r.NewPassword, "8", "128") {
		return dErrors.New(dErrors.CodeInvalidInput, "password must be between 8 and 128 characters")
	}
	return nil
}

// ChangePasswordRequest is the self-service password change; it fails closed
// when the old password does not bind.
type ChangePasswordRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (r *ChangePasswordRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *ChangePasswordRequest) Validate() error {
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid email")
	}
	if r.OldPassword == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "old password is required")
	}
	if !govalidator.StringLength(r.NewPassword, "8", "128") {
		return dErrors.New(dErrors.CodeInvalidInput, "password must be between 8 and 128 characters")
	}
	return nil
}

// CheckPasswordRequest verifies a password through a directory bind.
type CheckPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *CheckPasswordRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *CheckPasswordRequest) Validate() error {
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid email")
	}
	return nil
}
