package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskRowColumns = []string{
	"id", "title", "description", "team_id", "assigned_user_id", "status", "created_at", "updated_at",
}

func newMockTaskStore(t *testing.T) (*PostgresTaskStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresTaskStore(db, nil), mock
}

func TestTaskStoreListWithoutTeamSkipsQuery(t *testing.T) {
	s, mock := newMockTaskStore(t)
	status := domain.StatusNew

	tasks, err := s.List(context.Background(), nil, store.TaskFilter{Status: &status})

	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreListFilters(t *testing.T) {
	teamID := int64(7)
	userID := uuid.New()
	status := domain.StatusInProgress
	now := time.Now().UTC()

	tests := []struct {
		name   string
		filter store.TaskFilter
		where  string
		args   []driver.Value
	}{
		{
			name:  "team only",
			where: `WHERE team_id = $1 ORDER BY id`,
			args:  []driver.Value{teamID},
		},
		{
			name:   "status",
			filter: store.TaskFilter{Status: &status},
			where:  `WHERE team_id = $1 AND status = $2 ORDER BY id`,
			args:   []driver.Value{teamID, "in_progress"},
		},
		{
			name:   "status and assignee",
			filter: store.TaskFilter{Status: &status, AssignedUserID: &userID},
			where:  `WHERE team_id = $1 AND status = $2 AND assigned_user_id = $3 ORDER BY id`,
			args:   []driver.Value{teamID, "in_progress", sqlmock.AnyArg()},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newMockTaskStore(t)

			rows := sqlmock.NewRows(taskRowColumns).
				AddRow(int64(1), "a", "", teamID, userID.String(), "in_progress", now, now).
				AddRow(int64(2), "b", "desc", teamID, nil, "new", now, now)

			mock.ExpectQuery(regexp.QuoteMeta(tc.where)).WithArgs(tc.args...).WillReturnRows(rows)

			tasks, err := s.List(context.Background(), &teamID, tc.filter)

			require.NoError(t, err)
			require.Len(t, tasks, 2)
			require.NotNil(t, tasks[0].AssignedUserID)
			assert.Equal(t, userID, *tasks[0].AssignedUserID)
			assert.Equal(t, domain.StatusInProgress, tasks[0].Status)
			assert.Nil(t, tasks[1].AssignedUserID)
			assert.Equal(t, domain.StatusNew, tasks[1].Status)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTaskStoreCreateForcesTeamAndStatus(t *testing.T) {
	s, mock := newMockTaskStore(t)
	now := time.Now().UTC()

	other := uuid.New()
	input := domain.NewTask("Write docs", "all of them")
	input.TeamID = 99
	input.Status = domain.StatusCompleted
	input.AssignedUserID = &other

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks")).
		WithArgs("Write docs", "all of them", int64(3), "new", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(int64(10), "Write docs", "all of them", int64(3), nil, "new", now, now))

	got, err := s.Create(context.Background(), input, 3)

	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
	assert.Equal(t, int64(3), got.TeamID)
	assert.Equal(t, domain.StatusNew, got.Status)
	assert.Nil(t, got.AssignedUserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreCreateErrors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		s, mock := newMockTaskStore(t)
		_, err := s.Create(context.Background(), domain.NewTask("", ""), 1)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing team", func(t *testing.T) {
		s, mock := newMockTaskStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks")).
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})
		_, err := s.Create(context.Background(), domain.NewTask("t", ""), 42)
		assert.ErrorIs(t, err, store.ErrTeamNotFound)
	})
}

func TestTaskStoreGetByID(t *testing.T) {
	s, mock := newMockTaskStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(int64(5), "t", "", int64(1), nil, "new", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE id = $1")).
		WithArgs(int64(6)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnError(errors.New("connection reset"))

	got, err := s.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)

	_, err = s.GetByID(context.Background(), 6)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = s.GetByID(context.Background(), 7)
	require.Error(t, err)
	assert.False(t, store.IsNotFoundError(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreUpdate(t *testing.T) {
	userID := uuid.New()
	now := time.Now().UTC()

	t.Run("writes every field", func(t *testing.T) {
		s, mock := newMockTaskStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks")).
			WithArgs("new title", "d", int64(2), sqlmock.AnyArg(), "in_progress", sqlmock.AnyArg(), int64(9)).
			WillReturnRows(sqlmock.NewRows(taskRowColumns).
				AddRow(int64(9), "new title", "d", int64(2), userID.String(), "in_progress", now, now))

		got, err := s.Update(context.Background(), 9, store.TaskUpdate{
			Title:          "new title",
			Description:    "d",
			TeamID:         2,
			AssignedUserID: &userID,
			Status:         domain.StatusInProgress,
		})

		require.NoError(t, err)
		assert.True(t, got.IsAssignedTo(userID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("assigned while new is rejected", func(t *testing.T) {
		s, mock := newMockTaskStore(t)
		_, err := s.Update(context.Background(), 9, store.TaskUpdate{
			Title: "x", TeamID: 1, AssignedUserID: &userID, Status: domain.StatusNew,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, domain.FieldErrors(err), "assigned_user")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockTaskStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks")).WillReturnError(sql.ErrNoRows)
		_, err := s.Update(context.Background(), 404, store.TaskUpdate{
			Title: "x", TeamID: 1, Status: domain.StatusNew,
		})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	fkTests := []struct {
		name       string
		constraint string
		assignee   *uuid.UUID
		status     domain.Status
		wantIs     error
	}{
		{name: "unknown team", constraint: taskTeamFKey, status: domain.StatusNew, wantIs: store.ErrTeamNotFound},
		{name: "unknown team with an assignee", constraint: taskTeamFKey, assignee: &userID, status: domain.StatusInProgress, wantIs: store.ErrTeamNotFound},
		{name: "unknown assignee", constraint: taskAssignedUserFKey, assignee: &userID, status: domain.StatusInProgress, wantIs: store.ErrInvalidEntity},
		{name: "unnamed constraint without assignee", status: domain.StatusNew, wantIs: store.ErrTeamNotFound},
		{name: "unnamed constraint with assignee", assignee: &userID, status: domain.StatusInProgress, wantIs: store.ErrInvalidEntity},
	}
	for _, tc := range fkTests {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newMockTaskStore(t)
			mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks")).
				WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: tc.constraint})
			_, err := s.Update(context.Background(), 1, store.TaskUpdate{
				Title: "x", TeamID: 77, AssignedUserID: tc.assignee, Status: tc.status,
			})
			assert.ErrorIs(t, err, tc.wantIs)
			if tc.wantIs == store.ErrTeamNotFound {
				assert.NotErrorIs(t, err, store.ErrInvalidEntity)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTaskStoreDelete(t *testing.T) {
	s, mock := newMockTaskStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Delete(context.Background(), 1))
	assert.ErrorIs(t, s.Delete(context.Background(), 2), store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreWithTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := NewPostgresTaskStore(db, nil)
	err = store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return s.WithTx(tx).Delete(ctx, 3)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
