package service

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown account and a wrong
	// password, so sign-in never reveals whether an email is registered.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrNotAuthenticated indicates a missing or invalid session.
	ErrNotAuthenticated = errors.New("Not authenticated")
	// ErrUserNotFound is returned when a profile username does not resolve.
	ErrUserNotFound = errors.New("User not found")
	// ErrMessageNotFound covers both an absent message and one owned by a
	// different user; the two cases are deliberately indistinguishable.
	ErrMessageNotFound = errors.New("Message not found or unauthorized")
)

// ConflictError reports a registration uniqueness clash and names the
// colliding field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	switch e.Field {
	case "email":
		return "Email already exists"
	case "username":
		return "Username already exists"
	default:
		return "Account already exists"
	}
}
