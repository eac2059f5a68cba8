package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS restricts cross-origin access to the configured frontend origins.
// Preflight must let the bearer Authorization header through; that is the
// only authentication the API accepts.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
