package user

import (
	"errors"

	appErrors "job-board/pkg/errors"
)

var (
	ErrUserNotFound  = appErrors.ErrUserNotFound
	ErrEmailTaken    = appErrors.ErrEmailTaken
	ErrUsernameTaken = appErrors.ErrUsernameTaken

	// ErrStaleWrite is returned when a conditional update matched no record.
	ErrStaleWrite = errors.New("user record no longer matches the update condition")
)
