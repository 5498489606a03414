package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrExpired               = errors.New("challenge expired")
	ErrDuplicateSubmission   = errors.New("duplicate submission")
	ErrNotAccepted           = errors.New("challenge not accepted")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrAlreadyActive         = errors.New("challenge already active")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
