package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/teamtasks/internal/platform/logger"
	"github.com/phrazzld/teamtasks/internal/redact"
)

// ErrorResponse defines the standard error response structure.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// FormResponse describes a form, optionally with per-field errors. It is
// the body of GET form pages and of rejected submissions.
type FormResponse struct {
	Form   any               `json:"form"`
	Errors map[string]string `json:"errors,omitempty"`
}

// MethodNotAllowedResponse is the body sent for unsupported methods on
// JSON endpoints.
type MethodNotAllowedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

// RespondWithError writes a JSON error response carrying the request's
// trace ID.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	logger.FromContext(r.Context()).Debug("sending error response",
		slog.Int("status_code", status),
		slog.String("message", message),
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method))

	RespondWithJSON(w, r, status, ErrorResponse{Error: message, TraceID: traceID})
}

// RespondWithErrorAndLog writes userMessage to the client and logs err with
// its text redacted. 5xx responses log at ERROR, everything else at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	traceID := GetTraceID(r.Context())

	attrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.FromContext(r.Context()).LogAttrs(r.Context(), level, "API error response", attrs...)

	RespondWithJSON(w, r, status, ErrorResponse{Error: userMessage, TraceID: traceID})
}

// RespondWithForm writes a FormResponse.
func RespondWithForm(w http.ResponseWriter, r *http.Request, status int, form any, errs map[string]string) {
	RespondWithJSON(w, r, status, FormResponse{Form: form, Errors: errs})
}

// RespondMethodNotAllowed writes the 405 JSON body.
func RespondMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusMethodNotAllowed, MethodNotAllowedResponse{
		Status:  "false",
		Message: "Method not allowed",
	})
}

// SeeOther redirects to location with 303 so the client follows up with GET.
func SeeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
