package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/phrazzld/teamtasks/internal/api/shared"
	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/service"
	"github.com/phrazzld/teamtasks/internal/store"
)

// ProfileHandler serves role and team selection.
type ProfileHandler struct {
	profiles service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// SelectRoleForm handles GET /select-role-and-team/.
func (h *ProfileHandler) SelectRoleForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, nil)
		return
	}
	teams, err := h.profiles.Teams(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, nil)
		return
	}

	form := SelectRoleRequest{Role: string(profile.Role)}
	if profile.TeamID != nil {
		form.Team = strconv.FormatInt(*profile.TeamID, 10)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SelectRoleResponse{
		Profile: profile,
		Teams:   teams,
		Form:    form,
	})
}

// SelectRole handles POST /select-role-and-team/.
func (h *ProfileHandler) SelectRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	req, ok := readForm(w, r, selectRoleRequestFrom)
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

	_, err = h.profiles.SelectRoleAndTeam(r.Context(), userID, req.Role, team)
	if errors.Is(err, store.ErrTeamNotFound) {
		err = domain.NewValidationError("team", "select a valid choice", err)
	}
	if err != nil {
		HandleAPIError(w, r, err, req)
		return
	}

	setFlash(w, FlashProfileSaved)
	shared.SeeOther(w, r, ListPath)
}
