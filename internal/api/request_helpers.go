package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/teamtasks/internal/api/shared"
	"github.com/phrazzld/teamtasks/internal/platform/logger"
	"github.com/phrazzld/teamtasks/internal/store"
)

// getPathID parses the {id} URL parameter. Anything that is not a positive
// integer names no task.
func getPathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, store.ErrTaskNotFound
	}
	return id, nil
}

// requireUser returns the session user, or writes a redirect to the login
// page when the route was mounted without the auth middleware.
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Warn("user ID not found in request context")
		shared.SeeOther(w, r, LoginPath)
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserAndPathID extracts both the session user and the task id,
// writing the error response when either is missing.
func handleUserAndPathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, int64, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return uuid.Nil, 0, false
	}
	id, err := getPathID(r)
	if err != nil {
		logger.FromContext(r.Context()).Debug("invalid task id",
			slog.String("value", chi.URLParam(r, "id")))
		HandleAPIError(w, r, err, nil)
		return uuid.Nil, 0, false
	}
	return userID, id, true
}

// readForm reads the submitted values and runs build on them. A body that
// cannot be parsed gets a 400 response.
func readForm[T any](w http.ResponseWriter, r *http.Request, build func(url.Values) T) (T, bool) {
	var zero T
	values, err := shared.ReadValues(w, r)
	if err != nil {
		HandleAPIError(w, r, errors.Join(shared.ErrUnsupportedBody, err), nil)
		return zero, false
	}
	return build(values), true
}
