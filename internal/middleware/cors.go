package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// NewCORS builds the CORS middleware from server.cors_origins. An empty value
// or "*" lets any origin call the catalog API.
func NewCORS(allowed string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  corsOrigins(allowed),
		AllowMethods:  corsMethods,
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", ViewerHeader, RequestIDHeader},
		ExposeHeaders: append([]string{RequestIDHeader}, rateLimitHeaders...),
		MaxAge:        int((24 * time.Hour).Seconds()),
	})
}

// Catalog reads use GET; ratings, marks and genre updates use the rest.
var corsMethods = []string{
	fiber.MethodGet,
	fiber.MethodPost,
	fiber.MethodPut,
	fiber.MethodPatch,
	fiber.MethodDelete,
	fiber.MethodOptions,
}

var rateLimitHeaders = []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}

// corsOrigins splits the configured list, dropping blanks.
func corsOrigins(allowed string) []string {
	allowed = strings.TrimSpace(allowed)
	if allowed == "" || allowed == "*" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(allowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
