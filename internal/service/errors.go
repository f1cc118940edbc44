package service

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserIDTaken        = errors.New("user id already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("old password is incorrect")
	ErrSamePassword       = errors.New("new password equals old password")
	ErrPasswordConfirm    = errors.New("password confirmation does not match")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrOTPExpired         = errors.New("otp has expired")
	ErrMailDelivery       = errors.New("failed to send mail")
	ErrUnsupportedFile    = errors.New("unsupported file type")
)

// ValidationError reports bad client input. Message is safe to show.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
