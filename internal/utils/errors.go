package utils

import "errors"

// Common application errors used across services.
var (
	ErrNotAuthenticated = errors.New("NOT_AUTHENTICATED")
	ErrSessionExpired   = errors.New("SESSION_EXPIRED")
	ErrBusy             = errors.New("OPERATION_IN_PROGRESS")
	ErrNoEditContext    = errors.New("NO_EDIT_CONTEXT")
	ErrNoPendingDelete  = errors.New("NO_PENDING_DELETE")
	ErrSKUNotFound      = errors.New("SKU_NOT_FOUND")
)
