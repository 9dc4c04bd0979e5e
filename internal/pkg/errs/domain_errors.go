package errs

import "errors"

// Error taxonomy markers. Usecase sentinels are marked with one of these so
// transport code can map any failure to a response class without knowing
// every sentinel.
var (
	// ErrValidation: malformed input; surfaced, never retried.
	ErrValidation = errors.New("validation error")
	// ErrNotFound: referenced entity absent or scoped to another location.
	ErrNotFound = errors.New("not found")
	// ErrConflict: slot occupied, overlapping block, holiday, duplicate.
	ErrConflict = errors.New("conflict")
	// ErrPolicyViolation: a configured business rule rejected the operation.
	ErrPolicyViolation = errors.New("policy violation")
)
