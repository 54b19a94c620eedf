package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Klir-FH/MRP/internal/middleware"
	"github.com/Klir-FH/MRP/internal/service"
)

type RecommendationHandler struct {
	svc      *service.RecommendationService
	maxLimit int
}

func NewRecommendationHandler(svc *service.RecommendationService, maxLimit int) *RecommendationHandler {
	return &RecommendationHandler{svc: svc, maxLimit: maxLimit}
}

// Recommend handles GET /api/recommendations?type=genre|content&limit=N
func (h *RecommendationHandler) Recommend(c fiber.Ctx) error {
	limit, errMsg := middleware.ValidateLimit(fiber.Query[string](c, "limit"), h.maxLimit)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	strategy := service.ParseStrategy(fiber.Query[string](c, "type"))

	entries, err := h.svc.Recommend(c.Context(), middleware.Viewer(c), strategy, limit)
	if err != nil {
		return respondError(c, err, "User")
	}

	Metrics.RecommendationsTotal.WithLabelValues(strategy.String()).Inc()
	return c.JSON(entries)
}
