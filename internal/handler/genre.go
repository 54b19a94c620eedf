package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Klir-FH/MRP/internal/middleware"
	"github.com/Klir-FH/MRP/internal/model"
	"github.com/Klir-FH/MRP/internal/service"
)

type GenreHandler struct {
	svc *service.GenreService
}

func NewGenreHandler(svc *service.GenreService) *GenreHandler {
	return &GenreHandler{svc: svc}
}

// List handles GET /api/media/:id/genres
func (h *GenreHandler) List(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	genres, err := h.svc.Genres(c.Context(), id)
	if err != nil {
		return respondError(c, err, "Media entry")
	}
	return c.JSON(fiber.Map{"mediaId": id, "genres": genres})
}

// Replace handles PUT /api/media/:id/genres. The viewer must own the entry.
func (h *GenreHandler) Replace(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.SetGenresRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	owner := middleware.Viewer(c)
	genres, err := h.svc.SetGenres(c.Context(), id, &owner, req.Genres)
	if err != nil {
		return respondError(c, err, "Media entry")
	}

	Metrics.GenreUpdatesTotal.Inc()
	middleware.Logger.Info().
		Str("request_id", middleware.RequestID(c)).
		Int64("media_id", id).
		Int("genre_count", len(genres)).
		Msg("genres replaced")
	return c.JSON(fiber.Map{"mediaId": id, "genres": genres})
}
