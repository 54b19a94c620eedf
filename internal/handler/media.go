package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Klir-FH/MRP/internal/middleware"
	"github.com/Klir-FH/MRP/internal/query"
	"github.com/Klir-FH/MRP/internal/service"
)

type MediaHandler struct {
	search *service.SearchService
	stats  *service.StatsService
}

func NewMediaHandler(search *service.SearchService, stats *service.StatsService) *MediaHandler {
	return &MediaHandler{search: search, stats: stats}
}

// Search handles GET /api/media
func (h *MediaHandler) Search(c fiber.Ctx) error {
	viewer, errMsg := middleware.ViewerID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	entries, err := h.search.Search(c.Context(), query.RawFilter{
		Query:          fiber.Query[string](c, "query"),
		Genre:          fiber.Query[string](c, "genre"),
		Type:           fiber.Query[string](c, "type"),
		Year:           fiber.Query[string](c, "year"),
		AgeRestriction: fiber.Query[string](c, "ageRestriction"),
		MinScore:       fiber.Query[string](c, "minScore"),
		SortBy:         fiber.Query[string](c, "sortBy"),
		SortOrder:      fiber.Query[string](c, "sortOrder"),
		ViewerID:       viewer,
	})
	if err != nil {
		return respondError(c, err, "Media entry")
	}

	Metrics.SearchesTotal.Inc()
	Metrics.SearchResults.Observe(float64(len(entries)))
	return c.JSON(entries)
}

// BulkStats handles GET /api/media/stats?ids=1,2,3
func (h *MediaHandler) BulkStats(c fiber.Ctx) error {
	ids, errMsg := middleware.ValidateIDList(fiber.Query[string](c, "ids"), "ids")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	viewer, errMsg := middleware.ViewerID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	stats, err := h.stats.GetBulk(c.Context(), ids, viewer)
	if err != nil {
		return respondError(c, err, "Media entry")
	}
	return c.JSON(stats)
}

// Stats handles GET /api/media/:id/stats
func (h *MediaHandler) Stats(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	viewer, errMsg := middleware.ViewerID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	stats, err := h.stats.Get(c.Context(), id, viewer)
	if err != nil {
		return respondError(c, err, "Media entry")
	}
	return c.JSON(stats)
}

// Catalog handles GET /api/stats
func (h *MediaHandler) Catalog(c fiber.Ctx) error {
	stats, err := h.stats.Catalog(c.Context())
	if err != nil {
		return respondError(c, err, "Statistics")
	}
	return c.JSON(stats)
}
