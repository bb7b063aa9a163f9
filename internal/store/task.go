package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/teamtasks/internal/domain"
)

// TaskFilter narrows List with optional equality filters. Nil fields do not
// filter.
type TaskFilter struct {
	Status         *domain.Status
	AssignedUserID *uuid.UUID
}

// TaskUpdate carries the fields an admin may edit. Every field is written;
// callers load the task first and change what they need.
type TaskUpdate struct {
	Title          string
	Description    string
	TeamID         int64
	AssignedUserID *uuid.UUID
	Status         domain.Status
}

// UpdateFromTask builds a TaskUpdate holding t's editable fields.
func UpdateFromTask(t *domain.Task) TaskUpdate {
	return TaskUpdate{
		Title:          t.Title,
		Description:    t.Description,
		TeamID:         t.TeamID,
		AssignedUserID: t.AssignedUserID,
		Status:         t.Status,
	}
}

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// List returns the tasks owned by teamID, narrowed by filter, ordered by
	// ID. A nil teamID yields an empty slice.
	List(ctx context.Context, teamID *int64, filter TaskFilter) ([]*domain.Task, error)

	// Create persists a new task owned by teamID. Whatever team, status and
	// assignee the caller put on task are replaced by teamID, StatusNew and
	// no assignee. task.ID and timestamps are filled in.
	Create(ctx context.Context, task *domain.Task, teamID int64) (*domain.Task, error)

	// GetByID returns the task or ErrTaskNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update overwrites the task's editable fields and returns the result,
	// or ErrTaskNotFound.
	Update(ctx context.Context, id int64, fields TaskUpdate) (*domain.Task, error)

	// Delete removes the task or returns ErrTaskNotFound.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}

// TeamStore gives access to the team directory.
type TeamStore interface {
	// List returns every team ordered by name.
	List(ctx context.Context) ([]*domain.Team, error)

	// GetByID returns the team or ErrTeamNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Team, error)

	// GetByName returns the team or ErrTeamNotFound.
	GetByName(ctx context.Context, name string) (*domain.Team, error)

	// Create inserts a team and sets its ID. Returns ErrTeamExists for a
	// duplicate name.
	Create(ctx context.Context, team *domain.Team) error
}
