package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/Klir-FH/MRP/internal/config"
	"github.com/Klir-FH/MRP/internal/db"
	"github.com/Klir-FH/MRP/internal/handler"
	"github.com/Klir-FH/MRP/internal/middleware"
	"github.com/Klir-FH/MRP/internal/repository"
	"github.com/Klir-FH/MRP/internal/router"
	"github.com/Klir-FH/MRP/internal/service"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		middleware.InitLogger("info", "mrp-api")
		middleware.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	middleware.InitLogger(cfg.Log.Level, "mrp-api")
	middleware.IPSalt = cfg.Server.IPSalt
	log := middleware.Logger

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	// Rate limit counters are shared through Redis when configured.
	var (
		rdb   *redis.Client
		store middleware.CounterStore = middleware.NewMemoryStore()
	)
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid redis url")
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, rate limits fail open until it recovers")
		}
		store = middleware.NewRedisStore(rdb)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	handler.InitMetrics(registry, pool)

	// Repositories
	mediaRepo := repository.NewMediaRepo(pool)
	statsRepo := repository.NewStatsRepo(pool)
	genreRepo := repository.NewGenreRepo(pool)
	ratingRepo := repository.NewRatingRepo(pool)
	interactionRepo := repository.NewInteractionRepo(pool)
	recommendationRepo := repository.NewRecommendationRepo(pool)
	userRepo := repository.NewUserRepo(pool)

	// Services
	searchSvc := service.NewSearchService(mediaRepo)
	statsSvc := service.NewStatsService(statsRepo)
	genreSvc := service.NewGenreService(genreRepo, mediaRepo)
	ratingSvc := service.NewRatingService(ratingRepo, mediaRepo)
	interactionSvc := service.NewInteractionService(interactionRepo, mediaRepo)
	recommendationSvc := service.NewRecommendationService(recommendationRepo, cfg.Recommend)
	userSvc := service.NewUserService(userRepo)

	app := fiber.New(fiber.Config{
		AppName:      "MRP API",
		ServerHeader: "MRP",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	router.Setup(app, &router.Handlers{
		Media:          handler.NewMediaHandler(searchSvc, statsSvc),
		Genre:          handler.NewGenreHandler(genreSvc),
		Interaction:    handler.NewInteractionHandler(interactionSvc),
		Rating:         handler.NewRatingHandler(ratingSvc),
		Recommendation: handler.NewRecommendationHandler(recommendationSvc, cfg.Recommend.MaxLimit),
		User:           handler.NewUserHandler(userSvc),
		Health:         handler.NewHealthHandler(pool, rdb, version),
	}, router.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		ReadLimit:   middleware.NewReadRateLimiter(cfg.RateLimit.SearchPerMinute, store),
		WriteLimit:  middleware.NewWriteRateLimiter(cfg.RateLimit.WritePerMinute, store),
		Gatherer:    registry,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("environment", cfg.Server.Environment).
			Bool("redis", rdb != nil).
			Msg("MRP backend starting")
		errCh <- app.Listen(":"+cfg.Server.Port, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
