package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/coah80/hoist/internal/util"
)

// LoadCORS builds the CORS handler from the configured origins. Credentials
// are only allowed when the origin list is explicit.
func LoadCORS(origins []string) func(http.Handler) http.Handler {
	log := util.GetLogger("cors")

	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}

	if allowAll {
		log.Debug().Msg("allowing all origins, credentials disabled")
		return cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           86400,
		})
	}

	log.Debug().Int("origins", len(origins)).Msg("restricting origins")
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
}
