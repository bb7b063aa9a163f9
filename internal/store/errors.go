package store

import (
	"errors"
	"fmt"
)

// Base sentinels. Implementations return the entity-specific variants
// below, which wrap these so callers can test either level with errors.Is.
var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate means a unique column already holds the value.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity means the row was rejected by a database constraint
	// that is not covered by a more specific error.
	ErrInvalidEntity = errors.New("invalid entity")
)

// Lookups.
var (
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)
	ErrTeamNotFound = fmt.Errorf("%w: team", ErrNotFound)
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)
)

// Unique names.
var (
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)
	ErrTeamExists     = fmt.Errorf("%w: team name", ErrDuplicate)
)

// IsNotFoundError reports whether err is any of the not-found errors.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any of the duplicate errors.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
