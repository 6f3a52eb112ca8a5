package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskerp-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskerp-api/internal/api/middleware"
	"github.com/phrazzld/taskerp-api/internal/domain"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.config.Auth, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	logHandler := api.NewActionLogHandler(app.logService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userService)

	elevated := apiMiddleware.RequireRoles(domain.RoleAdmin, domain.RoleManager)
	adminOnly := apiMiddleware.RequireRoles(domain.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/initial-admin", authHandler.InitialAdmin)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(apiMiddleware.RequestAudit(app.recorder))

			r.Get("/auth/me", authHandler.Me)
			r.With(adminOnly).Post("/auth/register", authHandler.Register)

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", taskHandler.CreateTask)
				r.Get("/", taskHandler.ListTasks)
				r.Get("/{id}", taskHandler.GetTask)
				r.Put("/{id}", taskHandler.UpdateTask)
				r.Patch("/{id}/status", taskHandler.UpdateTaskStatus)
				r.With(elevated).Patch("/{id}/assign", taskHandler.AssignTask)
				r.With(elevated).Delete("/{id}", taskHandler.DeleteTask)
			})

			r.With(adminOnly).Get("/logs", logHandler.ListActionLogs)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
