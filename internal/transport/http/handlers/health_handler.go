package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/vedran77/taskly/internal/logger"
	"github.com/vedran77/taskly/internal/repository"
	"github.com/vedran77/taskly/internal/transport/http/middleware"
	"github.com/vedran77/taskly/internal/transport/http/response"
)

const pingTimeout = 2 * time.Second

type HealthHandler struct {
	store repository.Pinger
	env   string
}

func NewHealthHandler(store repository.Pinger, env string) *HealthHandler {
	return &HealthHandler{store: store, env: env}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logger.LogError(err, "health check")
		response.JSON(w, http.StatusServiceUnavailable, response.Envelope{
			Success: false,
			Message: "Store is unreachable",
		})
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	_, authenticated := middleware.UserFromContext(r.Context())

	response.Success(w, http.StatusOK, "Backend API is running", map[string]any{
		"environment":   h.env,
		"timestamp":     time.Now().UTC(),
		"authenticated": authenticated,
	})
}
