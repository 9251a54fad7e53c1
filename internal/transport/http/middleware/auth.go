package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vedran77/taskly/internal/domain"
	"github.com/vedran77/taskly/internal/logger"
	"github.com/vedran77/taskly/internal/transport/http/response"
)

type contextKey string

const userKey contextKey = "user"

// Resolver maps a bearer token to the active user it was issued for.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

func Authenticate(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				response.Error(w, domain.Unauthenticated("No token provided. Please login to access this resource"))
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				response.Error(w, domain.Unauthenticated("Invalid token format"))
				return
			}

			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				response.Error(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// OptionalAuth attaches the user when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok && strings.TrimSpace(token) != "" {
				user, err := resolver.Resolve(r.Context(), strings.TrimSpace(token))
				if err == nil {
					r = r.WithContext(WithUser(r.Context(), user))
				} else {
					logger.LogDebug("optional auth: continuing anonymously: %v", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.Error(w, domain.Unauthenticated("Please authenticate first"))
			return
		}
		if !user.IsAdmin() {
			response.Error(w, domain.Forbidden("Access denied. Admin privileges required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user attached by Authenticate or OptionalAuth.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok && user != nil
}
