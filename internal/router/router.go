package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Klir-FH/MRP/internal/handler"
	"github.com/Klir-FH/MRP/internal/middleware"
	"github.com/Klir-FH/MRP/internal/model"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Media          *handler.MediaHandler
	Genre          *handler.GenreHandler
	Interaction    *handler.InteractionHandler
	Rating         *handler.RatingHandler
	Recommendation *handler.RecommendationHandler
	User           *handler.UserHandler
	Health         *handler.HealthHandler
}

// Options carries the router settings that do not belong to a handler.
// ReadLimit and WriteLimit are required.
type Options struct {
	CORSOrigins string
	ReadLimit   *middleware.RateLimiter
	WriteLimit  *middleware.RateLimiter
	Gatherer    prometheus.Gatherer
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, opts Options) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestID())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(opts.CORSOrigins))

	// Probes and metrics stay outside the rate limits
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	if opts.Gatherer != nil {
		app.Get("/metrics", handler.MetricsHandler(opts.Gatherer))
	}

	api := app.Group("/api")
	api.Use(opts.ReadLimit.Handler())

	// Writes need a viewer and are limited per viewer on top of the read limit
	viewer := middleware.RequireViewer()
	limited := opts.WriteLimit.Handler()

	// Media routes
	api.Get("/media", h.Media.Search)
	api.Get("/media/stats", h.Media.BulkStats)
	api.Get("/media/:id/stats", h.Media.Stats)
	api.Get("/media/:id/genres", h.Genre.List)
	api.Put("/media/:id/genres", viewer, limited, h.Genre.Replace)

	// Interaction routes
	api.Post("/media/:id/like", viewer, limited, h.Interaction.Mark(model.InteractionLike))
	api.Delete("/media/:id/like", viewer, limited, h.Interaction.Unmark(model.InteractionLike))
	api.Post("/media/:id/favorite", viewer, limited, h.Interaction.Mark(model.InteractionFavourite))
	api.Delete("/media/:id/favorite", viewer, limited, h.Interaction.Unmark(model.InteractionFavourite))

	// Rating routes
	api.Get("/media/:id/ratings", h.Rating.ListByMedia)
	api.Post("/media/:id/ratings", viewer, limited, h.Rating.Create)
	api.Put("/ratings/:id", viewer, limited, h.Rating.Update)
	api.Patch("/ratings/:id/confirm", viewer, limited, h.Rating.Confirm)
	api.Delete("/ratings/:id", viewer, limited, h.Rating.Delete)
	api.Post("/ratings/:id/like", viewer, limited, h.Rating.Like)
	api.Delete("/ratings/:id/like", viewer, limited, h.Rating.Unlike)

	// Recommendation routes
	api.Get("/recommendations", viewer, h.Recommendation.Recommend)

	// User routes
	api.Get("/users/:id/ratings", h.Rating.ListByUser)
	api.Get("/users/:id/profile", h.User.Profile)
	api.Get("/leaderboard", h.User.Leaderboard)

	// Stats routes
	api.Get("/stats", h.Media.Catalog)
}
