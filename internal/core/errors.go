package core

import "errors"

// Sentinel errors returned by the services. Handlers map them with errors.Is.
var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrNotFound                 = errors.New("not found")
	ErrConflict                 = errors.New("conflict")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrUserNotFound             = errors.New("user not found")
	ErrEmailAlreadyVerified     = errors.New("email is already verified")
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrVerificationExpired      = errors.New("verification token has expired")
	ErrAlreadyConfirmed         = errors.New("subscription is already confirmed")
)

// InputError is a validation failure with a message fit for the client.
// It matches ErrInvalidInput under errors.Is.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// Is reports whether target is ErrInvalidInput.
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func invalidInput(message string) error {
	return &InputError{Message: message}
}
