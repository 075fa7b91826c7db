package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrHashFailure        = errors.New("password hash failure")
	ErrConflict           = errors.New("username or email already taken")
	ErrSessionExpired     = errors.New("session expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
)

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Message string
}

func (ve ValidationError) Error() string {
	return ve.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
