package domain

import "errors"

// Sentinel errors. Services return these (possibly wrapped); the API layer's
// error handler maps each one to a deterministic HTTP status.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthorized      = errors.New("not authorized to access this route")
	ErrForbidden          = errors.New("access forbidden")

	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("user already exists with this email")
	ErrBadToken      = errors.New("invalid or expired token")
	ErrWrongPassword = errors.New("current password is incorrect")

	ErrEventNotFound = errors.New("event not found")
	ErrEventInactive = errors.New("event is not active")
	ErrEventFull     = errors.New("event is full")

	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrAlreadyCancelled     = errors.New("registration is already cancelled")
	ErrFeedbackExists       = errors.New("feedback already submitted")
)
