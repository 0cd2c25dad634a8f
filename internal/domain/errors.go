package domain

import "errors"

// Sentinel errors for the application.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrDuplicate          = errors.New("duplicate key")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrRecipientSuspended = errors.New("recipient is suspended")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrReportResolved     = errors.New("report already resolved")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorage            = errors.New("storage failure")
)
