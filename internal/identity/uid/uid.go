// Package uid maps identity records onto the numeric account identifiers the
// directory's posixAccount object class requires.
package uid

import (
	dErrors "cloudid/pkg/domain-errors"

	"cloudid/internal/identity/models"
)

// Country namespaces. The allocation is uid = base(country) + record id, so
// record ids must stay below the smallest base for the ranges to remain
// disjoint.
const (
	BaseES    int64 = 1_000_000
	BasePT    int64 = 2_000_000
	BaseOther int64 = 9_000_000

	// MaxRecordID bounds record ids so no namespace can bleed into another.
	MaxRecordID int64 = 1_000_000
)

// Allocate computes the numeric uid for a record. The result is a pure
// function of its inputs and never changes once a record is provisioned.
func Allocate(country models.CountryCode, recordID int64) (int64, error) {
	if recordID <= 0 {
		return 0, dErrors.New(dErrors.CodeInvariantViolation, "record id must be positive")
	}
	if recordID >= MaxRecordID {
		return 0, dErrors.New(dErrors.CodeInvariantViolation, "record id exceeds the uid namespace bound")
	}

	switch country {
	case models.CountryES:
		return BaseES + recordID, nil
	case models.CountryPT:
		return BasePT + recordID, nil
	default:
		return BaseOther + recordID, nil
	}
}
