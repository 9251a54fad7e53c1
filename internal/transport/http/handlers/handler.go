package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vedran77/taskly/internal/domain"
	"github.com/vedran77/taskly/internal/transport/http/middleware"
	"github.com/vedran77/taskly/internal/transport/http/response"
)

const maxBodyBytes = 1 << 20

// handlerFunc is an http.HandlerFunc that reports failure by returning an
// error instead of writing the response itself.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func handle(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			response.Error(w, err)
		}
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.BadRequest("Request body too large")
		}
		if errors.Is(err, io.EOF) {
			return domain.BadRequest("Request body is required")
		}
		return domain.BadRequest("Invalid request body")
	}
	return nil
}

func currentUser(r *http.Request) (*domain.User, error) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return nil, domain.Unauthenticated("Please authenticate first")
	}
	return user, nil
}

func notFound(w http.ResponseWriter, r *http.Request) error {
	return domain.NotFound("Route " + r.URL.RequestURI() + " not found")
}
