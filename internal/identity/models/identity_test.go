package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "cloudid/pkg/domain-errors"
)

func TestStatusTransitionsAreForwardOnly(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusCreated, StatusConfirmed, true},
		{StatusCreated, StatusValid, true},
		{StatusConfirmed, StatusValid, true},
		{StatusValid, StatusActive, true},
		{StatusConfirmed, StatusCreated, false},
		{StatusValid, StatusConfirmed, false},
		{StatusActive, StatusValid, false},
		{StatusCreated, StatusActive, false},
		{StatusExternal, StatusCreated, false},
		{StatusCreated, StatusExternal, false},
		{StatusActive, StatusActive, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s → %s", tc.from, tc.to)
	}
}

func TestNewValidatesInvariants(t *testing.T) {
	now := time.Now()

	_, err := New("", "Ada", CountryES, "aa", "bb", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = New("a@example.org", "Ada", CountryES, "", "bb", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = New("a@example.org", "Ada", CountryES, "same", "same", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	record, err := New("a@example.org", "Ada", CountryES, "aa", "bb", now)
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, record.Status)
	assert.False(t, record.OwnsDirectoryEntry())
}

func TestDNFollowsCountrySubtree(t *testing.T) {
	base := "o=cloud,dc=ibergrid,dc=eu"
	now := time.Now()

	es, err := New("a@example.org", "Ada", CountryES, "aa", "bb", now)
	require.NoError(t, err)
	assert.Equal(t, "uid=a@example.org,ou=users,c=es,"+base, es.DN(base))

	pt, err := New("b@example.org", "Bea", CountryPT, "cc", "dd", now)
	require.NoError(t, err)
	assert.Equal(t, "uid=b@example.org,ou=users,c=pt,"+base, pt.DN(base))

	other, err := New("c@example.org", "Cid", ParseCountry("FR"), "ee", "ff", now)
	require.NoError(t, err)
	assert.Equal(t, "uid=c@example.org,ou=users,c=xx,"+base, other.DN(base))
}

func TestNewExternalIsTerminalAtBirth(t *testing.T) {
	record, err := NewExternal("a@example.org", "Ada", "principal-1", "aa", "bb", time.Now())
	require.NoError(t, err)

	assert.Equal(t, StatusExternal, record.Status)
	assert.Equal(t, "principal-1", record.LoginID)
	assert.False(t, record.OwnsDirectoryEntry())
	assert.False(t, record.Status.CanTransitionTo(StatusValid))
}

func TestGuardsReportInvalidState(t *testing.T) {
	record := &Identity{Status: StatusActive}

	assert.True(t, dErrors.HasCode(record.CanConfirm(), dErrors.CodeInvalidState))
	assert.True(t, dErrors.HasCode(record.CanActivate(), dErrors.CodeInvalidState))
	assert.True(t, dErrors.HasCode(record.CanResetPassword(), dErrors.CodeInvalidState))

	created := &Identity{Status: StatusCreated}
	assert.NoError(t, created.CanConfirm())
	assert.NoError(t, created.CanActivate())

	confirmed := &Identity{Status: StatusConfirmed}
	assert.NoError(t, confirmed.CanActivate())

	valid := &Identity{Status: StatusValid}
	assert.NoError(t, valid.CanResetPassword())
	assert.True(t, valid.OwnsDirectoryEntry())
}

func TestRegisterRequestNormalizeDefaults(t *testing.T) {
	req := RegisterRequest{Email: "  A@Example.ORG ", Name: " Ada ", Country: ""}
	req.Normalize()

	assert.Equal(t, "a@example.org", req.Email)
	assert.Equal(t, "Ada", req.Name)
	assert.Equal(t, "ES", req.Country)
	assert.NoError(t, req.Validate())
}
