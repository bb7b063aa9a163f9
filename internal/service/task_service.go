package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/platform/logger"
	"github.com/phrazzld/teamtasks/internal/store"
)

// TransitionRecorder counts task actions by outcome.
type TransitionRecorder interface {
	ObserveTransition(action, outcome string)
}

// Outcomes passed to TransitionRecorder.
const (
	outcomeApplied = "applied"
	outcomeDenied  = "denied"
)

// TaskQuery holds the list filters as the caller sent them.
type TaskQuery struct {
	Status string
	Mine   bool
}

// TaskList is the caller's view of their team's tasks.
type TaskList struct {
	Tasks         []*domain.Task
	Profile       *domain.Profile
	CurrentStatus string
	CurrentMine   bool
}

// TaskInput carries user-editable task fields. TeamID, AssignedUserID and
// Status are only read by Update; Create always starts a new, unassigned
// task in the creator's team. An empty Status keeps the current one and a
// nil TeamID keeps the current team.
type TaskInput struct {
	Title          string
	Description    string
	TeamID         *int64
	AssignedUserID *uuid.UUID
	Status         string
}

// TaskService runs the task lifecycle on behalf of an authenticated user.
// Authorization failures return domain.ErrPermissionDenied and change
// nothing.
type TaskService interface {
	List(ctx context.Context, userID uuid.UUID, query TaskQuery) (*TaskList, error)
	Get(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error)
	Create(ctx context.Context, userID uuid.UUID, input TaskInput) (*domain.Task, error)
	Update(ctx context.Context, userID uuid.UUID, id int64, input TaskInput) (*domain.Task, error)
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
	Claim(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error)
	Complete(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error)
}

type taskServiceImpl struct {
	db       *sql.DB
	tasks    store.TaskStore
	profiles store.ProfileStore
	recorder TransitionRecorder
	logger   *slog.Logger
	timeFunc func() time.Time
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService. recorder may be nil.
func NewTaskService(
	db *sql.DB,
	tasks store.TaskStore,
	profiles store.ProfileStore,
	recorder TransitionRecorder,
	logger *slog.Logger,
) (TaskService, error) {
	if err := errors.Join(
		requireDep("db", db == nil),
		requireDep("tasks", tasks == nil),
		requireDep("profiles", profiles == nil),
		requireDep("logger", logger == nil),
	); err != nil {
		return nil, err
	}
	return &taskServiceImpl{
		db:       db,
		tasks:    tasks,
		profiles: profiles,
		recorder: recorder,
		logger:   logger.With(slog.String("component", "task_service")),
		timeFunc: time.Now,
	}, nil
}

func (s *taskServiceImpl) actor(ctx context.Context, userID uuid.UUID) (domain.Actor, error) {
	p, err := loadProfile(ctx, s.profiles, userID)
	if err != nil {
		return domain.Actor{}, NewServiceError("task", "authorize", "failed to load profile", err)
	}
	return domain.Actor{UserID: userID, Profile: *p}, nil
}

func (s *taskServiceImpl) record(action domain.Action, err error) {
	if s.recorder == nil {
		return
	}
	switch {
	case err == nil:
		s.recorder.ObserveTransition(string(action), outcomeApplied)
	case errors.Is(err, domain.ErrPermissionDenied):
		s.recorder.ObserveTransition(string(action), outcomeDenied)
	}
}

// authorize checks a task-independent action and logs denials at debug.
func (s *taskServiceImpl) authorize(ctx context.Context, actor domain.Actor, action domain.Action, task *domain.Task) error {
	if err := domain.Authorize(actor, action, task); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("task action denied",
			slog.String("action", string(action)),
			slog.String("user_id", actor.UserID.String()),
			slog.String("role", string(actor.Profile.Role)))
		return err
	}
	return nil
}

// List implements TaskService. A status that is not a known Status matches
// no task.
func (s *taskServiceImpl) List(ctx context.Context, userID uuid.UUID, query TaskQuery) (*TaskList, error) {
	profile, err := loadProfile(ctx, s.profiles, userID)
	if err != nil {
		return nil, NewServiceError("task", "list", "failed to load profile", err)
	}

	out := &TaskList{
		Tasks:         []*domain.Task{},
		Profile:       profile,
		CurrentStatus: query.Status,
		CurrentMine:   query.Mine,
	}

	var filter store.TaskFilter
	if query.Status != "" {
		status, err := domain.ParseStatus(query.Status)
		if err != nil {
			return out, nil
		}
		filter.Status = &status
	}
	if query.Mine {
		filter.AssignedUserID = &userID
	}

	tasks, err := s.tasks.List(ctx, profile.TeamID, filter)
	if err != nil {
		return nil, NewServiceError("task", "list", "failed to list tasks", err)
	}
	out.Tasks = tasks
	return out, nil
}

// Get implements TaskService. Only admins may load a task for editing.
func (s *taskServiceImpl) Get(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
	actor, err := s.actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, domain.ActionUpdateTask, nil); err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Create implements TaskService.
func (s *taskServiceImpl) Create(ctx context.Context, userID uuid.UUID, input TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	actor, err := s.actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, domain.ActionCreateTask, nil); err != nil {
		s.record(domain.ActionCreateTask, err)
		return nil, err
	}
	if !actor.Profile.HasTeam() {
		return nil, domain.NewValidationError("team", "select a team before creating tasks", nil)
	}

	var created *domain.Task
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		created, err = s.tasks.WithTx(tx).Create(ctx, domain.NewTask(input.Title, input.Description), *actor.Profile.TeamID)
		return err
	})
	if err != nil {
		return nil, s.wrap("create", err)
	}

	s.record(domain.ActionCreateTask, nil)
	log.Info("task created",
		slog.Int64("task_id", created.ID),
		slog.String("user_id", userID.String()))
	return created, nil
}

// Update implements TaskService. Admins may set any status and assignee
// the task invariants allow; the lifecycle does not apply.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
	input TaskInput,
) (*domain.Task, error) {
	actor, err := s.actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, domain.ActionUpdateTask, nil); err != nil {
		s.record(domain.ActionUpdateTask, err)
		return nil, err
	}

	var status domain.Status
	if input.Status != "" {
		status, err = domain.ParseStatus(input.Status)
		if err != nil {
			return nil, domain.NewValidationError("status", "is not one of the available choices", err)
		}
	}

	var updated *domain.Task
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)
		current, err := tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		fields := store.UpdateFromTask(current)
		fields.Title = input.Title
		fields.Description = input.Description
		fields.AssignedUserID = input.AssignedUserID
		if status != "" {
			fields.Status = status
		}
		if input.TeamID != nil {
			fields.TeamID = *input.TeamID
		}
		updated, err = tasks.Update(ctx, id, fields)
		return err
	})
	switch {
	case errors.Is(err, store.ErrTeamNotFound):
		return nil, domain.NewValidationError("team", "select a valid choice", err)
	case errors.Is(err, store.ErrInvalidEntity):
		return nil, domain.NewValidationError("assigned_user", "select a valid choice", err)
	case err != nil:
		return nil, s.wrap("update", err)
	}

	s.record(domain.ActionUpdateTask, nil)
	return updated, nil
}

// Delete implements TaskService.
func (s *taskServiceImpl) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	actor, err := s.actor(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, domain.ActionDeleteTask, nil); err != nil {
		s.record(domain.ActionDeleteTask, err)
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return s.wrap("delete", err)
	}
	s.record(domain.ActionDeleteTask, nil)
	return nil
}

// Claim implements TaskService.
func (s *taskServiceImpl) Claim(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
	return s.transition(ctx, userID, id, domain.ActionClaimTask, (*domain.Task).Claim)
}

// Complete implements TaskService.
func (s *taskServiceImpl) Complete(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
	return s.transition(ctx, userID, id, domain.ActionCompleteTask, (*domain.Task).Complete)
}

// transition loads the task, applies step and writes the result back in one
// transaction. An unknown task is reported before any authorization.
func (s *taskServiceImpl) transition(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
	action domain.Action,
	step func(*domain.Task, domain.Actor, time.Time) error,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	actor, err := s.actor(ctx, userID)
	if err != nil {
		return nil, err
	}

	var result *domain.Task
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)
		task, err := tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := step(task, actor, s.timeFunc()); err != nil {
			return err
		}
		result, err = tasks.Update(ctx, id, store.UpdateFromTask(task))
		return err
	})
	s.record(action, err)
	if err != nil {
		if errors.Is(err, domain.ErrPermissionDenied) {
			log.Debug("task transition denied",
				slog.String("action", string(action)),
				slog.Int64("task_id", id),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		return nil, s.wrap(string(action), err)
	}

	log.Info("task transitioned",
		slog.String("action", string(action)),
		slog.Int64("task_id", id),
		slog.String("status", string(result.Status)))
	return result, nil
}

// wrap passes expected sentinels through and wraps everything else.
func (s *taskServiceImpl) wrap(operation string, err error) error {
	if store.IsNotFoundError(err) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrPermissionDenied) {
		return err
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return NewServiceError("task", operation, "store operation failed", err)
}
