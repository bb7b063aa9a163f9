package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits for Task, in characters.
const (
	MaxTaskTitleLength       = 200
	MaxTaskDescriptionLength = 5000
)

// Status is a task's position in its lifecycle.
type Status string

// Task statuses, in lifecycle order.
const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusNew, StatusInProgress, StatusCompleted}
}

// ParseStatus converts raw input into a Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.TrimSpace(s)); st {
	case StatusNew, StatusInProgress, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Task is a unit of work owned by exactly one team.
type Task struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	TeamID         int64      `json:"team_id"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewTask returns an unsaved, unassigned task in StatusNew. Its team is
// set when it is stored.
func NewTask(title, description string) *Task {
	now := time.Now().UTC()
	return &Task{
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsAssignedTo reports whether the task is assigned to userID.
func (t *Task) IsAssignedTo(userID uuid.UUID) bool {
	return t.AssignedUserID != nil && *t.AssignedUserID == userID
}

// Validate checks the task's fields and the assignment invariant: a task is
// only assigned while in progress or completed. All problems are reported
// together.
func (t *Task) Validate() error {
	var errs []error

	switch {
	case t.Title == "":
		errs = append(errs, NewValidationError("title", "is required", nil))
	case utf8.RuneCountInString(t.Title) > MaxTaskTitleLength:
		errs = append(errs, NewValidationError("title", "is too long", nil))
	}

	if utf8.RuneCountInString(t.Description) > MaxTaskDescriptionLength {
		errs = append(errs, NewValidationError("description", "is too long", nil))
	}

	if t.TeamID <= 0 {
		errs = append(errs, NewValidationError("team", "is required", nil))
	}

	if !t.Status.Valid() {
		errs = append(errs, NewValidationError("status",
			"must be one of new, in_progress, completed", ErrInvalidStatus))
	} else if t.Status == StatusNew && t.AssignedUserID != nil {
		errs = append(errs, NewValidationError("assigned_user",
			"must be empty while the task is new", nil))
	}

	return errors.Join(errs...)
}
