package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Username and password limits. 72 is bcrypt's input limit.
const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// ErrEmptyUserID is returned when a user has no identifier.
var ErrEmptyUserID = errors.New("user ID cannot be empty")

// User is an account able to sign in. Role and team live on its Profile.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // Plaintext, only set between registration and hashing
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a User with a fresh ID and the given credentials.
// The caller is responsible for hashing the password before storing the user.
func NewUser(username, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(username),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks the user's fields. All field problems are reported
// together, joined with errors.Join.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	var errs []error
	switch {
	case u.Username == "":
		errs = append(errs, NewValidationError("username", "is required", nil))
	case len(u.Username) > MaxUsernameLength:
		errs = append(errs, NewValidationError("username", "is too long", nil))
	case !validUsername(u.Username):
		errs = append(errs, NewValidationError("username",
			"may contain only letters, digits and @/./+/-/_", nil))
	}

	if u.Password != "" {
		switch {
		case len(u.Password) < MinPasswordLength:
			errs = append(errs, NewValidationError("password", "is too short", nil))
		case len(u.Password) > MaxPasswordLength:
			errs = append(errs, NewValidationError("password", "is too long", nil))
		}
	} else if u.HashedPassword == "" {
		errs = append(errs, NewValidationError("password", "is required", nil))
	}

	return errors.Join(errs...)
}

func validUsername(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("@.+-_", r):
		default:
			return false
		}
	}
	return true
}
