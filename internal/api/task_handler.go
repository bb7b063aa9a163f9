package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/teamtasks/internal/api/shared"
	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/service"
)

// TaskHandler serves the task list and every task action. Actions always
// end in a redirect to the list; denied actions change nothing.
type TaskHandler struct {
	tasks    service.TaskService
	profiles service.ProfileService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, profiles service.ProfileService) *TaskHandler {
	return &TaskHandler{tasks: tasks, profiles: profiles}
}

// List handles /list/. Only GET is allowed; the status and mine=true query
// parameters filter the caller's team tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		shared.RespondMethodNotAllowed(w, r)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	list, err := h.tasks.List(r.Context(), userID, service.TaskQuery{
		Status: q.Get("status"),
		Mine:   q.Get("mine") == "true",
	})
	if err != nil {
		HandleAPIError(w, r, err, nil)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Tasks:         list.Tasks,
		Profile:       list.Profile,
		CurrentStatus: list.CurrentStatus,
		CurrentMine:   list.CurrentMine,
		Message:       takeFlash(w, r),
	})
}

// canCreate checks the create permission before any form handling.
func (h *TaskHandler) canCreate(w http.ResponseWriter, r *http.Request) bool {
	userID, ok := requireUser(w, r)
	if !ok {
		return false
	}
	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, nil)
		return false
	}
	actor := domain.Actor{UserID: userID, Profile: *profile}
	if err := domain.Authorize(actor, domain.ActionCreateTask, nil); err != nil {
		HandleAPIError(w, r, err, nil)
		return false
	}
	return true
}

// CreateForm handles GET /task/create/.
func (h *TaskHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	if !h.canCreate(w, r) {
		return
	}
	shared.RespondWithForm(w, r, http.StatusOK, TaskRequest{}, nil)
}

// Create handles POST /task/create/. The task joins the creator's team.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.canCreate(w, r) {
		return
	}
	userID, _ := shared.UserID(r.Context())

	req, ok := readForm(w, r, taskRequestFrom)
	if !ok {
		return
	}
	if fields := shared.ValidateRequest(req); fields != nil {
		shared.RespondWithForm(w, r, http.StatusUnprocessableEntity, req, fields)
		return
	}

	if _, err := h.tasks.Create(r.Context(), userID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
	}); err != nil {
		HandleAPIError(w, r, err, req)
		return
	}
	shared.SeeOther(w, r, ListPath)
}

// UpdateForm handles GET /task/update/{id}/.
func (h *TaskHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserAndPathID(w, r)
	if !ok {
		return
	}
	task, err := h.tasks.Get(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, nil)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, struct {
		shared.FormResponse
		Task *domain.Task `json:"task"`
	}{
		FormResponse: shared.FormResponse{Form: taskRequestFromTask(task)},
		Task:         task,
	})
}

// Update handles POST /task/update/{id}/. Permission and existence are
// checked before the submitted form.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserAndPathID(w, r)
	if !ok {
		return
	}
	if _, err := h.tasks.Get(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, nil)
		return
	}

	req, ok := readForm(w, r, taskRequestFrom)
	if !ok {
		return
	}
	if fields := shared.ValidateRequest(req); fields != nil {
		shared.RespondWithForm(w, r, http.StatusUnprocessableEntity, req, fields)
		return
	}
	team, err := teamID(req.Team)
	if err != nil {
		HandleAPIError(w, r, err, req)
		return
	}

	if _, err := h.tasks.Update(r.Context(), userID, id, service.TaskInput{
		Title:          req.Title,
		Description:    req.Description,
		TeamID:         team,
		AssignedUserID: assignedUserID(req.AssignedUser),
		Status:         req.Status,
	}); err != nil {
		HandleAPIError(w, r, err, req)
		return
	}
	shared.SeeOther(w, r, ListPath)
}

// Delete handles GET /task/delete/{id}/.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserAndPathID(w, r)
	if !ok {
		return
	}
	if err := h.tasks.Delete(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, nil)
		return
	}
	shared.SeeOther(w, r, ListPath)
}

// Claim handles GET /task/claim/{id}/.
func (h *TaskHandler) Claim(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tasks.Claim)
}

// Complete handles GET /task/complete/{id}/.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tasks.Complete)
}

func (h *TaskHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error),
) {
	userID, id, ok := handleUserAndPathID(w, r)
	if !ok {
		return
	}
	if _, err := apply(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, nil)
		return
	}
	shared.SeeOther(w, r, ListPath)
}
