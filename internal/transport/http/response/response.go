package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vedran77/taskly/internal/domain"
	"github.com/vedran77/taskly/internal/logger"
)

// Envelope is the body of every response the API writes.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.LogError(err, "encoding response")
	}
}

func Success(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Error formats err as a failure envelope. Anything that is not a
// *domain.Error is reported as an internal error and only its kind reaches
// the client.
func Error(w http.ResponseWriter, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		derr = domain.Internal(err)
	}

	status := StatusFor(derr.Kind)
	if status == http.StatusInternalServerError {
		logger.LogError(err, "request failed")
	}

	JSON(w, status, Envelope{Success: false, Message: derr.Message, Errors: derr.Errors})
}

func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
