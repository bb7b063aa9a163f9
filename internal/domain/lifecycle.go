package domain

import "time"

// transitions holds the edges of the task lifecycle reachable without admin
// intervention. StatusCompleted has none.
var transitions = map[Status]Status{
	StatusNew:        StatusInProgress,
	StatusInProgress: StatusCompleted,
}

// CanTransitionTo reports whether the lifecycle allows s -> next.
// Admin updates are not bound by this.
func (s Status) CanTransitionTo(next Status) bool {
	to, ok := transitions[s]
	return ok && to == next
}

// Terminal reports whether no lifecycle transition leaves s.
func (s Status) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

// Claim moves the task from new to in progress and assigns it to the actor.
// On denial the task is left untouched and ErrPermissionDenied is returned.
func (t *Task) Claim(actor Actor, now time.Time) error {
	if err := Authorize(actor, ActionClaimTask, t); err != nil {
		return err
	}
	userID := actor.UserID
	t.AssignedUserID = &userID
	t.Status = StatusInProgress
	t.UpdatedAt = now.UTC()
	return nil
}

// Complete moves the task from in progress to completed. Only the assignee
// may do this. On denial the task is left untouched.
func (t *Task) Complete(actor Actor, now time.Time) error {
	if err := Authorize(actor, ActionCompleteTask, t); err != nil {
		return err
	}
	t.Status = StatusCompleted
	t.UpdatedAt = now.UTC()
	return nil
}
