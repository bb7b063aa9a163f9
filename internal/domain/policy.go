package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Action names an operation subject to authorization.
type Action string

// Actions checked by CanPerform.
const (
	ActionCreateTask   Action = "create"
	ActionUpdateTask   Action = "update"
	ActionDeleteTask   Action = "delete"
	ActionClaimTask    Action = "claim"
	ActionCompleteTask Action = "complete"
)

// Actor is the authenticated caller: its user id and profile. A zero
// Profile (unset role, no team) is valid and is denied everything except
// completing tasks assigned to it.
type Actor struct {
	UserID  uuid.UUID
	Profile Profile
}

// CanPerform decides whether actor may perform action. task is required for
// claim and complete and ignored otherwise.
//
//	create/update/delete: role is admin
//	claim:    role is user, same team as the task, task is new
//	complete: task is assigned to the actor and in progress
func CanPerform(actor Actor, action Action, task *Task) bool {
	switch action {
	case ActionCreateTask, ActionUpdateTask, ActionDeleteTask:
		return actor.Profile.Role == RoleAdmin
	case ActionClaimTask:
		return task != nil &&
			actor.Profile.Role == RoleUser &&
			actor.Profile.InTeam(task.TeamID) &&
			task.Status == StatusNew
	case ActionCompleteTask:
		return task != nil &&
			actor.UserID != uuid.Nil &&
			task.IsAssignedTo(actor.UserID) &&
			task.Status == StatusInProgress
	default:
		return false
	}
}

// Authorize is CanPerform returning ErrPermissionDenied on denial.
func Authorize(actor Actor, action Action, task *Task) error {
	if CanPerform(actor, action, task) {
		return nil
	}
	return fmt.Errorf("%w: %s task", ErrPermissionDenied, action)
}
