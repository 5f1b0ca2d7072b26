package models

import "errors"

// Error taxonomy shared across the service. Callers branch with errors.Is;
// lower layers wrap these with context via fmt.Errorf and %w.
var (
	ErrNotAuthenticated = errors.New("user is not logged in")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrQuotaExceeded    = errors.New("monthly booking limit exceeded")
	ErrInvalidInput     = errors.New("invalid input")
)
