package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/teamtasks/internal/api"
	apiMiddleware "github.com/phrazzld/teamtasks/internal/api/middleware"
)

// setupRouter mounts every route on a chi router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)

	authHandler := api.NewAuthHandler(app.accounts, app.sessionCookie())
	profileHandler := api.NewProfileHandler(app.profiles)
	taskHandler := api.NewTaskHandler(app.tasks, app.profiles)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.revocation, app.config.Auth.CookieName)

	r.Get("/login/", authHandler.LoginForm)
	r.Post("/login/", authHandler.Login)
	r.Get("/register/", authHandler.RegisterForm)
	r.Post("/register/", authHandler.Register)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/logout/", authHandler.Logout)
		r.Get("/select-role-and-team/", profileHandler.SelectRoleForm)
		r.Post("/select-role-and-team/", profileHandler.SelectRole)

		r.HandleFunc("/list/", taskHandler.List)
		r.Get("/task/create/", taskHandler.CreateForm)
		r.Post("/task/create/", taskHandler.Create)
		r.Get("/task/update/{id}/", taskHandler.UpdateForm)
		r.Post("/task/update/{id}/", taskHandler.Update)
		r.Get("/task/delete/{id}/", taskHandler.Delete)
		r.Get("/task/claim/{id}/", taskHandler.Claim)
		r.Get("/task/complete/{id}/", taskHandler.Complete)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
