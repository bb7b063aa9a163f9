package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/teamtasks/internal/api/shared"
	"github.com/phrazzld/teamtasks/internal/platform/logger"
	"github.com/phrazzld/teamtasks/internal/service/auth"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login/"

// RevocationChecker reports whether a session token id was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware requires a valid, unrevoked session on the wrapped routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	revocation RevocationChecker
	cookieName string
}

// NewAuthMiddleware creates an AuthMiddleware reading the session from the
// named cookie or from an "Authorization: Bearer" header.
func NewAuthMiddleware(jwtService auth.JWTService, revocation RevocationChecker, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		revocation: revocation,
		cookieName: cookieName,
	}
}

// Authenticate validates the session token and stores its claims in the
// request context. Requests without a usable session are redirected to
// LoginPath with 303.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		claims, err := m.jwtService.ValidateToken(ctx, m.token(r))
		if err != nil {
			if !isTokenError(err) {
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
				return
			}
			log.Debug("session rejected", slog.String("reason", err.Error()))
			shared.SeeOther(w, r, LoginPath)
			return
		}

		revoked, err := m.revocation.IsRevoked(ctx, claims.ID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}
		if revoked {
			log.Debug("session rejected", slog.String("reason", auth.ErrRevokedToken.Error()))
			shared.SeeOther(w, r, LoginPath)
			return
		}

		ctx = shared.WithSession(ctx, claims)
		ctx = logger.WithLogger(ctx, log.With(slog.String("user_id", claims.UserID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// token returns the cookie value, falling back to a Bearer header.
func (m *AuthMiddleware) token(r *http.Request) string {
	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

func isTokenError(err error) bool {
	return errors.Is(err, auth.ErrMissingToken) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrExpiredToken)
}
