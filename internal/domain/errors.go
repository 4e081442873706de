package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the application.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicate          = errors.New("resource already exists")
	ErrConflict           = errors.New("concurrent write conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidCode        = errors.New("invalid or expired recovery code")
	ErrInternal           = errors.New("internal server error")
)

// RateLimitError is returned when a username change is attempted before the
// cooldown has elapsed. DaysLeft is the number of whole days remaining.
type RateLimitError struct {
	DaysLeft int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("username can be changed once every 3 days, days left: %d", e.DaysLeft)
}
