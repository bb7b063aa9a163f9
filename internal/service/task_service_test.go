package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memTaskStore is an in-memory store.TaskStore with the same contract as
// the PostgreSQL implementation.
type memTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]domain.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: map[int64]domain.Task{}}
}

func (m *memTaskStore) List(_ context.Context, teamID *int64, f store.TaskFilter) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Task{}
	if teamID == nil {
		return out, nil
	}
	for id := int64(1); id <= m.nextID; id++ {
		t, ok := m.tasks[id]
		if !ok || t.TeamID != *teamID {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.AssignedUserID != nil && !t.IsAssignedTo(*f.AssignedUserID) {
			continue
		}
		cp := t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memTaskStore) Create(_ context.Context, task *domain.Task, teamID int64) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := domain.Task{
		Title:       task.Title,
		Description: task.Description,
		TeamID:      teamID,
		Status:      domain.StatusNew,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	m.nextID++
	t.ID = m.nextID
	m.tasks[t.ID] = t
	return &t, nil
}

func (m *memTaskStore) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &t, nil
}

func (m *memTaskStore) Update(_ context.Context, id int64, f store.TaskUpdate) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return nil, store.ErrTaskNotFound
	}
	t := domain.Task{
		ID:             id,
		Title:          f.Title,
		Description:    f.Description,
		TeamID:         f.TeamID,
		AssignedUserID: f.AssignedUserID,
		Status:         f.Status,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	m.tasks[id] = t
	return &t, nil
}

func (m *memTaskStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *memTaskStore) WithTx(*sql.Tx) store.TaskStore { return m }

type taskFixture struct {
	svc      TaskService
	tasks    *memTaskStore
	profiles *MockProfileStore
	recorder *MockRecorder
	sql      sqlmock.Sqlmock
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	db, sqlm := newMockDB(t)
	f := &taskFixture{
		tasks:    newMemTaskStore(),
		profiles: &MockProfileStore{},
		recorder: &MockRecorder{},
		sql:      sqlm,
	}
	f.recorder.On("ObserveTransition", mock.Anything, mock.Anything).Return()
	svc, err := NewTaskService(db, f.tasks, f.profiles, f.recorder, testLogger())
	require.NoError(t, err)
	f.svc = svc
	return f
}

// member registers a profile for a fresh user id.
func (f *taskFixture) member(role domain.Role, team *int64) uuid.UUID {
	id := uuid.New()
	f.profiles.On("Get", mock.Anything, id).Return(&domain.Profile{UserID: id, Role: role, TeamID: team}, nil)
	return id
}

func (f *taskFixture) expectTx(commit bool) {
	f.sql.ExpectBegin()
	if commit {
		f.sql.ExpectCommit()
	} else {
		f.sql.ExpectRollback()
	}
}

func TestTaskLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	t1, t2 := int64Ptr(1), int64Ptr(2)

	admin := f.member(domain.RoleAdmin, t1)
	u := f.member(domain.RoleUser, t1)
	v := f.member(domain.RoleUser, t1)
	w := f.member(domain.RoleUser, t2)

	f.expectTx(true)
	x, err := f.svc.Create(ctx, admin, TaskInput{Title: "X"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, x.Status)
	assert.Equal(t, int64(1), x.TeamID)

	f.expectTx(false)
	_, err = f.svc.Claim(ctx, w, x.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	f.expectTx(true)
	claimed, err := f.svc.Claim(ctx, u, x.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, claimed.Status)
	assert.True(t, claimed.IsAssignedTo(u))

	f.expectTx(false)
	_, err = f.svc.Claim(ctx, v, x.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	f.expectTx(false)
	_, err = f.svc.Complete(ctx, v, x.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	current, err := f.tasks.GetByID(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, current.Status)
	assert.True(t, current.IsAssignedTo(u))

	f.expectTx(true)
	done, err := f.svc.Complete(ctx, u, x.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status)

	f.expectTx(false)
	_, err = f.svc.Complete(ctx, u, x.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	assert.NoError(t, f.sql.ExpectationsWereMet())
	f.recorder.AssertCalled(t, "ObserveTransition", "claim", "denied")
	f.recorder.AssertCalled(t, "ObserveTransition", "claim", "applied")
	f.recorder.AssertCalled(t, "ObserveTransition", "complete", "applied")
}

func TestTransitionOnUnknownTask(t *testing.T) {
	f := newTaskFixture(t)
	admin := f.member(domain.RoleAdmin, int64Ptr(1))

	f.expectTx(false)
	_, err := f.svc.Claim(context.Background(), admin, 404)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	f.expectTx(false)
	_, err = f.svc.Complete(context.Background(), admin, 404)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestListWithoutTeamIsEmpty(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	admin := f.member(domain.RoleAdmin, int64Ptr(1))

	f.expectTx(true)
	_, err := f.svc.Create(ctx, admin, TaskInput{Title: "visible to team 1"})
	require.NoError(t, err)

	drifter := f.member(domain.RoleUser, nil)
	stranger := uuid.New()
	f.profiles.On("Get", mock.Anything, stranger).Return(nil, store.ErrNotFound)

	queries := []TaskQuery{{}, {Status: "new"}, {Mine: true}, {Status: "completed", Mine: true}}
	for _, userID := range []uuid.UUID{drifter, stranger} {
		for _, q := range queries {
			list, err := f.svc.List(ctx, userID, q)
			require.NoError(t, err)
			assert.Empty(t, list.Tasks)
			assert.NotNil(t, list.Tasks)
			assert.Equal(t, q.Status, list.CurrentStatus)
			assert.Equal(t, q.Mine, list.CurrentMine)
		}
	}

	list, err := f.svc.List(ctx, stranger, TaskQuery{})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUnset, list.Profile.Role)
	assert.False(t, list.Profile.HasTeam())
	f.profiles.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	team := int64Ptr(1)
	admin := f.member(domain.RoleAdmin, team)
	u := f.member(domain.RoleUser, team)

	for _, title := range []string{"a", "b", "c"} {
		f.expectTx(true)
		_, err := f.svc.Create(ctx, admin, TaskInput{Title: title})
		require.NoError(t, err)
	}
	f.expectTx(true)
	_, err := f.svc.Claim(ctx, u, 2)
	require.NoError(t, err)

	tests := []struct {
		name  string
		query TaskQuery
		ids   []int64
	}{
		{"all", TaskQuery{}, []int64{1, 2, 3}},
		{"new", TaskQuery{Status: "new"}, []int64{1, 3}},
		{"in progress", TaskQuery{Status: "in_progress"}, []int64{2}},
		{"mine", TaskQuery{Mine: true}, []int64{2}},
		{"mine and new", TaskQuery{Status: "new", Mine: true}, nil},
		{"unknown status", TaskQuery{Status: "in progress"}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list, err := f.svc.List(ctx, u, tc.query)
			require.NoError(t, err)
			var ids []int64
			for _, task := range list.Tasks {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tc.ids, ids)
		})
	}
}

func TestCreateUsesCreatorTeam(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	admin := f.member(domain.RoleAdmin, int64Ptr(7))

	f.expectTx(true)
	created, err := f.svc.Create(ctx, admin, TaskInput{Title: "scoped", TeamID: int64Ptr(99), Status: "completed"})
	require.NoError(t, err)

	got, err := f.tasks.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.TeamID)
	assert.Equal(t, domain.StatusNew, got.Status)
	assert.Nil(t, got.AssignedUserID)
}

func TestCreateRejections(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)

	user := f.member(domain.RoleUser, int64Ptr(1))
	_, err := f.svc.Create(ctx, user, TaskInput{Title: "nope"})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	f.recorder.AssertCalled(t, "ObserveTransition", "create", "denied")

	teamless := f.member(domain.RoleAdmin, nil)
	_, err = f.svc.Create(ctx, teamless, TaskInput{Title: "nope"})
	assert.Contains(t, domain.FieldErrors(err), "team")

	admin := f.member(domain.RoleAdmin, int64Ptr(1))
	f.expectTx(false)
	_, err = f.svc.Create(ctx, admin, TaskInput{Title: ""})
	assert.Equal(t, "is required", domain.FieldErrors(err)["title"])

	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	admin := f.member(domain.RoleAdmin, int64Ptr(1))
	user := f.member(domain.RoleUser, int64Ptr(1))

	f.expectTx(true)
	x, err := f.svc.Create(ctx, admin, TaskInput{Title: "X", Description: "d"})
	require.NoError(t, err)

	t.Run("admin edits freely", func(t *testing.T) {
		f.expectTx(true)
		got, err := f.svc.Update(ctx, admin, x.ID, TaskInput{
			Title:          "X2",
			Description:    "d2",
			AssignedUserID: &user,
			Status:         "completed",
			TeamID:         int64Ptr(2),
		})
		require.NoError(t, err)
		assert.Equal(t, "X2", got.Title)
		assert.Equal(t, domain.StatusCompleted, got.Status)
		assert.Equal(t, int64(2), got.TeamID)
		assert.True(t, got.IsAssignedTo(user))
	})

	t.Run("empty status and team keep current", func(t *testing.T) {
		f.expectTx(true)
		got, err := f.svc.Update(ctx, admin, x.ID, TaskInput{Title: "X3", AssignedUserID: &user})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, got.Status)
		assert.Equal(t, int64(2), got.TeamID)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := f.svc.Update(ctx, admin, x.ID, TaskInput{Title: "X", Status: "done"})
		assert.Contains(t, domain.FieldErrors(err), "status")
	})

	t.Run("assignee on a new task", func(t *testing.T) {
		f.expectTx(false)
		_, err := f.svc.Update(ctx, admin, x.ID, TaskInput{Title: "X", Status: "new", AssignedUserID: &user})
		assert.Contains(t, domain.FieldErrors(err), "assigned_user")
	})

	t.Run("unknown task", func(t *testing.T) {
		f.expectTx(false)
		_, err := f.svc.Update(ctx, admin, 404, TaskInput{Title: "X"})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("non admin denied before lookup", func(t *testing.T) {
		_, err := f.svc.Update(ctx, user, 404, TaskInput{Title: "X"})
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})

	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestUpdateReportsMissingReference(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		storeErr  error
		wantField string
	}{
		{name: "missing team", storeErr: store.ErrTeamNotFound, wantField: "team"},
		{name: "missing assignee", storeErr: store.ErrInvalidEntity, wantField: "assigned_user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTaskFixture(t)
			admin := f.member(domain.RoleAdmin, int64Ptr(1))
			user := f.member(domain.RoleUser, int64Ptr(1))

			f.expectTx(true)
			x, err := f.svc.Create(ctx, admin, TaskInput{Title: "X"})
			require.NoError(t, err)

			tasks := &MockTaskStore{}
			tasks.On("GetByID", mock.Anything, x.ID).Return(x, nil)
			tasks.On("Update", mock.Anything, x.ID, mock.Anything).Return(nil, tt.storeErr)
			f.svc.(*taskServiceImpl).tasks = tasks

			f.expectTx(false)
			_, err = f.svc.Update(ctx, admin, x.ID, TaskInput{
				Title:          "X",
				Status:         "in_progress",
				AssignedUserID: &user,
				TeamID:         int64Ptr(99),
			})
			fields := domain.FieldErrors(err)
			assert.Equal(t, "select a valid choice", fields[tt.wantField])
			assert.Len(t, fields, 1)
			tasks.AssertExpectations(t)
		})
	}
}

func TestGetAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	admin := f.member(domain.RoleAdmin, int64Ptr(1))
	user := f.member(domain.RoleUser, int64Ptr(1))

	f.expectTx(true)
	x, err := f.svc.Create(ctx, admin, TaskInput{Title: "X"})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, user, x.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	got, err := f.svc.Get(ctx, admin, x.ID)
	require.NoError(t, err)
	assert.Equal(t, "X", got.Title)

	assert.ErrorIs(t, f.svc.Delete(ctx, user, x.ID), domain.ErrPermissionDenied)
	require.NoError(t, f.svc.Delete(ctx, admin, x.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, admin, x.ID), store.ErrTaskNotFound)

	f.recorder.AssertCalled(t, "ObserveTransition", "delete", "applied")
	f.recorder.AssertCalled(t, "ObserveTransition", "delete", "denied")
}

func TestNewTaskServiceRequiresDependencies(t *testing.T) {
	_, err := NewTaskService(nil, nil, nil, nil, nil)
	require.Error(t, err)
	fields := domain.FieldErrors(err)
	for _, name := range []string{"db", "tasks", "profiles", "logger"} {
		assert.Contains(t, fields, name)
	}
}

func TestClaimWritesAssignment(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)

	admin := f.member(domain.RoleAdmin, int64Ptr(1))
	u := f.member(domain.RoleUser, int64Ptr(1))

	f.expectTx(true)
	x, err := f.svc.Create(ctx, admin, TaskInput{Title: "X"})
	require.NoError(t, err)

	tasks := &MockTaskStore{}
	tasks.On("GetByID", mock.Anything, x.ID).Return(x, nil)
	tasks.On("Update", mock.Anything, x.ID, mock.MatchedBy(func(fields store.TaskUpdate) bool {
		return fields.Status == domain.StatusInProgress &&
			fields.AssignedUserID != nil && *fields.AssignedUserID == u &&
			fields.TeamID == x.TeamID && fields.Title == x.Title
	})).Return(x, nil)
	f.svc.(*taskServiceImpl).tasks = tasks

	f.expectTx(true)
	_, err = f.svc.Claim(ctx, u, x.ID)
	require.NoError(t, err)
	tasks.AssertExpectations(t)
}
