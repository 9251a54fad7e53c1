package middleware

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
)

func CORS(origins []string) func(http.Handler) http.Handler {
	return gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(origins),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
		gorillahandlers.ExposedHeaders([]string{RequestIDHeader}),
		gorillahandlers.AllowCredentials(),
	)
}
