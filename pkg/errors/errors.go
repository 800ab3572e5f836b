package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid user credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("you are not allowed to modify this resource")

	ErrUserNotFound    = errors.New("user does not exist")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrEmailTaken      = errors.New("user already exists with this email")
	ErrUserNotVerified = errors.New("verify the user first")
	ErrAlreadyVerified = errors.New("user is already verified")

	ErrActivationTokenRequired = errors.New("please provide the activation token")
	ErrActivationCodeRequired  = errors.New("please provide the activation code")
	ErrInvalidActivationCode   = errors.New("invalid activation code")
	ErrActivationCodeExpired   = errors.New("activation code has expired")
	ErrCredentialsRequired     = errors.New("email and password are required")
	ErrPasswordRequired        = errors.New("password is required")
	ErrResetLinkInvalid        = errors.New("reset link is invalid or has expired")

	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")

	ErrJobNotFound = errors.New("job not found")
)

// Codes carried by AppError.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeWeakPassword    = "WEAK_PASSWORD"
	CodeTokenGeneration = "TOKEN_GENERATION_FAILED"
	CodeNotification    = "NOTIFICATION_FAILED"
	CodeInternal        = "INTERNAL_ERROR"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Internal reports whether the error must be hidden from the client.
func (e *AppError) Internal() bool {
	switch e.Code {
	case CodeTokenGeneration, CodeNotification, CodeInternal:
		return true
	}
	return false
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
