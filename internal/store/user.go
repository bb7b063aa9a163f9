package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/teamtasks/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The user must already carry a HashedPassword;
	// the plaintext Password is never stored.
	// Returns ErrUsernameExists if the username is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}

// ProfileStore persists per-user role and team selections.
type ProfileStore interface {
	// Get returns the user's profile. Returns ErrNotFound when the user has
	// none yet; it never creates one.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// Upsert inserts the profile or overwrites role and team of an existing
	// one. Returns ErrTeamNotFound when TeamID references no team.
	Upsert(ctx context.Context, profile *domain.Profile) error

	// WithTx returns a ProfileStore bound to tx.
	WithTx(tx *sql.Tx) ProfileStore
}
