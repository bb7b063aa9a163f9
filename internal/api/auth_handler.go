package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/teamtasks/internal/api/shared"
	"github.com/phrazzld/teamtasks/internal/platform/logger"
	"github.com/phrazzld/teamtasks/internal/redact"
	"github.com/phrazzld/teamtasks/internal/service"
)

// Redirect targets after account actions.
const (
	LoginPath      = "/login/"
	SelectRolePath = "/select-role-and-team/"
)

// SessionCookie describes the cookie carrying the session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

func (c SessionCookie) set(w http.ResponseWriter, session *service.Session) {
	cookie := &http.Cookie{
		Name:     c.Name,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if session.Claims != nil {
		cookie.Expires = session.Claims.ExpiresAt
	}
	http.SetCookie(w, cookie)
}

func (c SessionCookie) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

// AuthHandler serves login, registration and logout.
type AuthHandler struct {
	accounts service.AccountService
	cookie   SessionCookie
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(accounts service.AccountService, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{accounts: accounts, cookie: cookie}
}

// LoginForm handles GET /login/.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithForm(w, r, http.StatusOK, LoginRequest{}, nil)
}

// Login handles POST /login/.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readForm(w, r, loginRequestFrom)
	if !ok {
		return
	}
	if fields := shared.ValidateRequest(req); fields != nil {
		shared.RespondWithForm(w, r, http.StatusUnprocessableEntity, req, fields)
		return
	}

	session, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, req)
		return
	}

	h.cookie.set(w, session)
	shared.SeeOther(w, r, ListPath)
}

// RegisterForm handles GET /register/.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithForm(w, r, http.StatusOK, RegisterRequest{}, nil)
}

// Register handles POST /register/. The new user continues to role and
// team selection already signed in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := readForm(w, r, registerRequestFrom)
	if !ok {
		return
	}
	if fields := shared.ValidateRequest(req); fields != nil {
		shared.RespondWithForm(w, r, http.StatusUnprocessableEntity, req, fields)
		return
	}

	session, err := h.accounts.Register(r.Context(), req.Username, req.Password1, req.Password2)
	if err != nil {
		HandleAPIError(w, r, err, req)
		return
	}

	h.cookie.set(w, session)
	shared.SeeOther(w, r, SelectRolePath)
}

// Logout handles GET /logout/. The cookie is cleared even if revoking the
// token fails.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := shared.Claims(r.Context())
	if ok {
		if err := h.accounts.Logout(r.Context(), claims); err != nil {
			logger.FromContext(r.Context()).Error("failed to revoke session",
				slog.String("error", redact.Error(err)))
		}
	}
	h.cookie.clear(w)
	shared.SeeOther(w, r, LoginPath)
}
