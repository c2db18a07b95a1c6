package middleware

import (
	"slices"

	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewCORS creates a new CORS middleware with the given allowed origins.
// Browsers refuse credentialed responses for a wildcard origin, so a "*"
// entry switches credentials off.
func NewCORS(allowedOrigins []string) *cors.Cors {
	wildcard := slices.Contains(allowedOrigins, "*")
	if wildcard {
		log.Warn().
			Strs("allowed_origins", allowedOrigins).
			Msg("CORS allows any origin; credentials disabled")
	}

	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Type", "X-Request-Id"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	})
}
