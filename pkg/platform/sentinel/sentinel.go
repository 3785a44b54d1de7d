package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and the directory client
// return these (optionally wrapped) so services can translate them into domain
// errors with proper codes.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity or directory entry does not exist
// - ErrConflict: unique key or distinguished name already taken
// - ErrAuthFailed: directory bind rejected the presented secret
// - ErrInvalidState: entity in wrong lifecycle state for the requested operation
// - ErrUnavailable: transport failure talking to the store or directory
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrAuthFailed   = errors.New("authentication failed")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
