package handlers

import (
	"net/http"

	"github.com/vedran77/taskly/internal/repository"
	"github.com/vedran77/taskly/internal/service"
	"github.com/vedran77/taskly/internal/transport/http/middleware"
)

type RouterConfig struct {
	AuthService *service.AuthService
	TaskService *service.TaskService
	UserService *service.UserService
	Store       repository.Pinger
	Env         string
	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.AuthService)
	taskHandler := NewTaskHandler(cfg.TaskService)
	userHandler := NewUserHandler(cfg.UserService)
	healthHandler := NewHealthHandler(cfg.Store, cfg.Env)

	auth := middleware.Authenticate(cfg.AuthService)
	optional := middleware.OptionalAuth(cfg.AuthService)
	admin := func(h http.Handler) http.Handler { return auth(middleware.RequireAdmin(h)) }

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /{$}", optional(http.HandlerFunc(healthHandler.Status)))
	mux.Handle("GET /api/v1", optional(http.HandlerFunc(healthHandler.Status)))
	mux.Handle("POST /api/v1/auth/signup", handle(authHandler.Signup))
	mux.Handle("POST /api/v1/auth/login", handle(authHandler.Login))

	// Protected - Auth
	mux.Handle("GET /api/v1/auth/me", auth(handle(authHandler.Me)))
	mux.Handle("POST /api/v1/auth/logout", auth(handle(authHandler.Logout)))

	// Protected - Tasks
	mux.Handle("GET /api/v1/tasks", auth(handle(taskHandler.List)))
	mux.Handle("POST /api/v1/tasks", auth(handle(taskHandler.Create)))
	mux.Handle("GET /api/v1/tasks/stats", auth(handle(taskHandler.Stats)))
	mux.Handle("GET /api/v1/tasks/{id}", auth(handle(taskHandler.Get)))
	mux.Handle("PUT /api/v1/tasks/{id}", auth(handle(taskHandler.Update)))
	mux.Handle("DELETE /api/v1/tasks/{id}", auth(handle(taskHandler.Delete)))

	// Protected - Users
	mux.Handle("GET /api/v1/users/profile", auth(handle(userHandler.Profile)))
	mux.Handle("PUT /api/v1/users/profile", auth(handle(userHandler.UpdateProfile)))
	mux.Handle("PUT /api/v1/users/password", auth(handle(userHandler.ChangePassword)))
	mux.Handle("DELETE /api/v1/users/account", auth(handle(userHandler.DeleteAccount)))

	// Admin
	mux.Handle("GET /api/v1/admin/users", admin(handle(userHandler.ListUsers)))
	mux.Handle("PATCH /api/v1/admin/users/{id}/status", admin(handle(userHandler.SetStatus)))

	mux.Handle("/", handle(notFound))

	cors := middleware.CORS(cfg.CORSOrigins)
	return middleware.Logging(middleware.Recover(cors(mux)))
}
