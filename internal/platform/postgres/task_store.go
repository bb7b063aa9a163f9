package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/platform/logger"
	"github.com/phrazzld/teamtasks/internal/store"
)

const taskColumns = `id, title, description, team_id, assigned_user_id, status, created_at, updated_at`

// Foreign key constraints on tasks, as named in migrations.
const (
	taskTeamFKey         = "tasks_team_id_fkey"
	taskAssignedUserFKey = "tasks_assigned_user_id_fkey"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
// It returns a new TaskStore instance that uses the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t        domain.Task
		assigned uuid.NullUUID
		status   string
	)
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.TeamID,
		&assigned,
		&status,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if assigned.Valid {
		id := assigned.UUID
		t.AssignedUserID = &id
	}
	t.Status = domain.Status(status)
	return &t, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// List implements store.TaskStore.List
// A nil teamID returns an empty slice without querying.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	teamID *int64,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if teamID == nil {
		log.Debug("no team selected, returning empty task list")
		return []*domain.Task{}, nil
	}

	conds := []string{"team_id = $1"}
	args := []any{*teamID}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.AssignedUserID != nil {
		args = append(args, *filter.AssignedUserID)
		conds = append(conds, fmt.Sprintf("assigned_user_id = $%d", len(args)))
	}

	query := "SELECT " + taskColumns + " FROM tasks WHERE " +
		strings.Join(conds, " AND ") + " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int64("team_id", *teamID))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("tasks listed",
		slog.Int64("team_id", *teamID),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// Create implements store.TaskStore.Create
// The stored task always belongs to teamID, starts in StatusNew and has no assignee.
func (s *PostgresTaskStore) Create(
	ctx context.Context,
	task *domain.Task,
	teamID int64,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	created := &domain.Task{
		Title:       task.Title,
		Description: task.Description,
		TeamID:      teamID,
		Status:      domain.StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := created.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("team_id", teamID))
		return nil, err
	}

	query := `
		INSERT INTO tasks (title, description, team_id, assigned_user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, NULL, $4, $5, $6)
		RETURNING ` + taskColumns

	out, err := scanTask(s.db.QueryRowContext(ctx, query,
		created.Title,
		created.Description,
		created.TeamID,
		string(created.Status),
		created.CreatedAt,
		created.UpdatedAt,
	))
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("task references a missing team", slog.Int64("team_id", teamID))
			return nil, store.ErrTeamNotFound
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("team_id", teamID))
		return nil, MapError(err)
	}

	log.Info("task created",
		slog.Int64("task_id", out.ID),
		slog.Int64("team_id", out.TeamID))
	return out, nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + taskColumns + " FROM tasks WHERE id = $1"
	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}
	return t, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id int64,
	fields store.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	candidate := &domain.Task{
		ID:             id,
		Title:          fields.Title,
		Description:    fields.Description,
		TeamID:         fields.TeamID,
		AssignedUserID: fields.AssignedUserID,
		Status:         fields.Status,
	}
	if err := candidate.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, team_id = $3, assigned_user_id = $4, status = $5, updated_at = $6
		WHERE id = $7
		RETURNING ` + taskColumns

	out, err := scanTask(s.db.QueryRowContext(ctx, query,
		fields.Title,
		fields.Description,
		fields.TeamID,
		nullUUID(fields.AssignedUserID),
		string(fields.Status),
		time.Now().UTC(),
		id,
	))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			log.Debug("task not found for update", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		case IsForeignKeyViolation(err):
			log.Debug("task update references a missing team or user",
				slog.Int64("task_id", id),
				slog.String("error", err.Error()))
			switch ConstraintName(err) {
			case taskTeamFKey:
				return nil, store.ErrTeamNotFound
			case taskAssignedUserFKey:
				return nil, MapError(err)
			}
			if fields.AssignedUserID != nil {
				return nil, MapError(err)
			}
			return nil, store.ErrTeamNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}

	log.Info("task updated",
		slog.Int64("task_id", id),
		slog.String("status", string(out.Status)))
	return out, nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for delete", slog.Int64("task_id", id))
		return err
	}

	log.Info("task deleted", slog.Int64("task_id", id))
	return nil
}
