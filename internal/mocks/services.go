package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/service"
	"github.com/phrazzld/teamtasks/internal/service/auth"
)

// MockAccountService implements service.AccountService for testing
type MockAccountService struct {
	RegisterFn func(ctx context.Context, username, password1, password2 string) (*service.Session, error)
	LoginFn    func(ctx context.Context, username, password string) (*service.Session, error)
	LogoutFn   func(ctx context.Context, claims *auth.Claims) error

	Session *service.Session
	Err     error
}

var _ service.AccountService = (*MockAccountService)(nil)

// Register implements service.AccountService
func (m *MockAccountService) Register(ctx context.Context, username, password1, password2 string) (*service.Session, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, username, password1, password2)
	}
	return m.Session, m.Err
}

// Login implements service.AccountService
func (m *MockAccountService) Login(ctx context.Context, username, password string) (*service.Session, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, username, password)
	}
	return m.Session, m.Err
}

// Logout implements service.AccountService
func (m *MockAccountService) Logout(ctx context.Context, claims *auth.Claims) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, claims)
	}
	return m.Err
}

// MockProfileService implements service.ProfileService for testing
type MockProfileService struct {
	GetFn               func(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	TeamsFn             func(ctx context.Context) ([]*domain.Team, error)
	SelectRoleAndTeamFn func(ctx context.Context, userID uuid.UUID, role string, teamID *int64) (*domain.Profile, error)

	Profile  *domain.Profile
	TeamList []*domain.Team
	Err      error
}

var _ service.ProfileService = (*MockProfileService)(nil)

// Get implements service.ProfileService
func (m *MockProfileService) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID)
	}
	return m.Profile, m.Err
}

// Teams implements service.ProfileService
func (m *MockProfileService) Teams(ctx context.Context) ([]*domain.Team, error) {
	if m.TeamsFn != nil {
		return m.TeamsFn(ctx)
	}
	return m.TeamList, m.Err
}

// SelectRoleAndTeam implements service.ProfileService
func (m *MockProfileService) SelectRoleAndTeam(
	ctx context.Context,
	userID uuid.UUID,
	role string,
	teamID *int64,
) (*domain.Profile, error) {
	if m.SelectRoleAndTeamFn != nil {
		return m.SelectRoleAndTeamFn(ctx, userID, role, teamID)
	}
	return m.Profile, m.Err
}

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	ListFn     func(ctx context.Context, userID uuid.UUID, query service.TaskQuery) (*service.TaskList, error)
	GetFn      func(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error)
	CreateFn   func(ctx context.Context, userID uuid.UUID, input service.TaskInput) (*domain.Task, error)
	UpdateFn   func(ctx context.Context, userID uuid.UUID, id int64, input service.TaskInput) (*domain.Task, error)
	DeleteFn   func(ctx context.Context, userID uuid.UUID, id int64) error
	ClaimFn    func(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error)
	CompleteFn func(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error)

	Task *domain.Task
	Err  error
}

var _ service.TaskService = (*MockTaskService)(nil)

// List implements service.TaskService
func (m *MockTaskService) List(ctx context.Context, userID uuid.UUID, query service.TaskQuery) (*service.TaskList, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, query)
	}
	return &service.TaskList{Tasks: []*domain.Task{}}, m.Err
}

// Get implements service.TaskService
func (m *MockTaskService) Get(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, id)
	}
	return m.Task, m.Err
}

// Create implements service.TaskService
func (m *MockTaskService) Create(ctx context.Context, userID uuid.UUID, input service.TaskInput) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, userID, input)
	}
	return m.Task, m.Err
}

// Update implements service.TaskService
func (m *MockTaskService) Update(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
	input service.TaskInput,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, userID, id, input)
	}
	return m.Task, m.Err
}

// Delete implements service.TaskService
func (m *MockTaskService) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return m.Err
}

// Claim implements service.TaskService
func (m *MockTaskService) Claim(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
	if m.ClaimFn != nil {
		return m.ClaimFn(ctx, userID, id)
	}
	return m.Task, m.Err
}

// Complete implements service.TaskService
func (m *MockTaskService) Complete(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, userID, id)
	}
	return m.Task, m.Err
}
