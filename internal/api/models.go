package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/teamtasks/internal/domain"
)

// LoginRequest is the login form.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"-"        form:"password" validate:"required"`
}

// RegisterRequest is the signup form. Password rules are checked by the
// account service so that all field errors come back together.
type RegisterRequest struct {
	Username  string `json:"username" form:"username"  validate:"required,max=150"`
	Password1 string `json:"-"        form:"password1" validate:"required"`
	Password2 string `json:"-"        form:"password2" validate:"required"`
}

// SelectRoleRequest is the role and team form. An empty Team clears the
// team, and so does leaving the key out.
type SelectRoleRequest struct {
	Role string `json:"role" form:"role" validate:"omitempty,oneof=admin user"`
	Team string `json:"team" form:"team" validate:"omitempty,number"`
}

// TaskRequest is the task form. Create reads only Title and Description.
type TaskRequest struct {
	Title        string `json:"title"         form:"title"         validate:"required,max=200"`
	Description  string `json:"description"   form:"description"   validate:"max=5000"`
	Team         string `json:"team"          form:"team"          validate:"omitempty,number"`
	AssignedUser string `json:"assigned_user" form:"assigned_user" validate:"omitempty,uuid"`
	Status       string `json:"status"        form:"status"        validate:"omitempty,oneof=new in_progress completed"`
}

// SelectRoleResponse is the body of GET /select-role-and-team/.
type SelectRoleResponse struct {
	Profile *domain.Profile   `json:"profile"`
	Teams   []*domain.Team    `json:"teams"`
	Form    SelectRoleRequest `json:"form"`
}

// TaskListResponse is the body of GET /list/.
type TaskListResponse struct {
	Tasks         []*domain.Task  `json:"tasks"`
	Profile       *domain.Profile `json:"profile"`
	CurrentStatus string          `json:"current_status"`
	CurrentMine   bool            `json:"current_mine"`
	Message       string          `json:"message,omitempty"`
}

func loginRequestFrom(v url.Values) LoginRequest {
	return LoginRequest{
		Username: strings.TrimSpace(v.Get("username")),
		Password: v.Get("password"),
	}
}

func registerRequestFrom(v url.Values) RegisterRequest {
	return RegisterRequest{
		Username:  strings.TrimSpace(v.Get("username")),
		Password1: v.Get("password1"),
		Password2: v.Get("password2"),
	}
}

func selectRoleRequestFrom(v url.Values) SelectRoleRequest {
	return SelectRoleRequest{
		Role: strings.TrimSpace(v.Get("role")),
		Team: strings.TrimSpace(v.Get("team")),
	}
}

func taskRequestFrom(v url.Values) TaskRequest {
	return TaskRequest{
		Title:        strings.TrimSpace(v.Get("title")),
		Description:  v.Get("description"),
		Team:         strings.TrimSpace(v.Get("team")),
		AssignedUser: strings.TrimSpace(v.Get("assigned_user")),
		Status:       strings.TrimSpace(v.Get("status")),
	}
}

// taskRequestFromTask prefills the update form.
func taskRequestFromTask(t *domain.Task) TaskRequest {
	req := TaskRequest{
		Title:       t.Title,
		Description: t.Description,
		Team:        strconv.FormatInt(t.TeamID, 10),
		Status:      string(t.Status),
	}
	if t.AssignedUserID != nil {
		req.AssignedUser = t.AssignedUserID.String()
	}
	return req
}

// teamID parses the team value. An empty value is no team; anything that
// does not fit an id is a field error, never a silent "no team".
func teamID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, domain.NewValidationError("team", "select a valid choice", err)
	}
	return &id, nil
}

func assignedUserID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
