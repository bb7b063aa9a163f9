package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/teamtasks/internal/api/shared"
	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/service/auth"
	"github.com/phrazzld/teamtasks/internal/store"
)

// ListPath is where task actions land, including denied ones.
const ListPath = "/list/"

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients. Permission errors are not mapped
// here; handlers turn them into a redirect.
func MapErrorToStatusCode(err error) int {
	var ve *domain.ValidationError
	switch {
	// Field errors first: they may wrap a not-found or duplicate sentinel.
	case errors.As(err, &ve),
		errors.Is(err, domain.ErrValidation),
		store.IsDuplicateError(err),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusUnprocessableEntity

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrRevokedToken):
		return http.StatusUnauthorized

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case errors.Is(err, shared.ErrUnsupportedBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Please enter a correct username and password"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrTeamNotFound):
		return "Team not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case store.IsNotFoundError(err):
		return "Not found"
	case errors.Is(err, shared.ErrUnsupportedBody):
		return "Invalid request format"
	case MapErrorToStatusCode(err) == http.StatusUnprocessableEntity:
		return "Validation error"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for a failed operation. Permission
// errors redirect to the task list; validation errors echo form back with
// per-field messages; everything else is a JSON error with a safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, form any) {
	if errors.Is(err, domain.ErrPermissionDenied) {
		shared.SeeOther(w, r, ListPath)
		return
	}

	status := MapErrorToStatusCode(err)
	if status == http.StatusUnprocessableEntity || errors.Is(err, auth.ErrInvalidCredentials) {
		fields := domain.FieldErrors(err)
		if fields == nil {
			fields = map[string]string{"__all__": GetSafeErrorMessage(err)}
		}
		shared.RespondWithForm(w, r, status, form, fields)
		return
	}

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
