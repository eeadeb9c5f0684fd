package repository

import "errors"

// ErrNotFound is returned when a row does not exist, or when a message is
// not owned by the receiver asking for it.
var ErrNotFound = errors.New("not found")

// ConflictError reports a uniqueness violation and names the colliding
// column. The database constraint is the final authority; repositories
// translate constraint failures into this type.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return e.Field + " already exists"
}
