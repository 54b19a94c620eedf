package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Klir-FH/MRP/internal/middleware"
	"github.com/Klir-FH/MRP/internal/model"
	"github.com/Klir-FH/MRP/internal/service"
)

type RatingHandler struct {
	svc *service.RatingService
}

func NewRatingHandler(svc *service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

// Create handles POST /api/media/:id/ratings
func (h *RatingHandler) Create(c fiber.Ctx) error {
	mediaID, errMsg := pathID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.RatingRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	id, err := h.svc.Create(c.Context(), mediaID, middleware.Viewer(c), req)
	if err != nil {
		return respondError(c, err, "Rating")
	}

	Metrics.RatingsTotal.WithLabelValues("create").Inc()
	return c.Status(fiber.StatusCreated).JSON(model.RatingResponse{ID: id})
}

// ListByMedia handles GET /api/media/:id/ratings
func (h *RatingHandler) ListByMedia(c fiber.Ctx) error {
	mediaID, errMsg := pathID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	viewer, errMsg := middleware.ViewerID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	ratings, err := h.svc.ListByMedia(c.Context(), mediaID, viewer)
	if err != nil {
		return respondError(c, err, "Media entry")
	}
	return c.JSON(ratings)
}

// ListByUser handles GET /api/users/:id/ratings
func (h *RatingHandler) ListByUser(c fiber.Ctx) error {
	userID, errMsg := pathID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	viewer, errMsg := middleware.ViewerID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	ratings, err := h.svc.ListByUser(c.Context(), userID, viewer)
	if err != nil {
		return respondError(c, err, "User")
	}
	return c.JSON(ratings)
}

// Update handles PUT /api/ratings/:id
func (h *RatingHandler) Update(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.RatingRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	if err := h.svc.Update(c.Context(), id, middleware.Viewer(c), req); err != nil {
		return respondError(c, err, "Rating")
	}

	Metrics.RatingsTotal.WithLabelValues("update").Inc()
	return c.SendStatus(fiber.StatusNoContent)
}

// Confirm handles PATCH /api/ratings/:id/confirm
func (h *RatingHandler) Confirm(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	if err := h.svc.ConfirmComment(c.Context(), id, middleware.Viewer(c)); err != nil {
		return respondError(c, err, "Rating")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete handles DELETE /api/ratings/:id
func (h *RatingHandler) Delete(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	if err := h.svc.Delete(c.Context(), id, middleware.Viewer(c)); err != nil {
		return respondError(c, err, "Rating")
	}

	Metrics.RatingsTotal.WithLabelValues("delete").Inc()
	return c.SendStatus(fiber.StatusNoContent)
}

// Like handles POST /api/ratings/:id/like
func (h *RatingHandler) Like(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	if err := h.svc.Like(c.Context(), id, middleware.Viewer(c)); err != nil {
		return respondError(c, err, "Rating")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Unlike handles DELETE /api/ratings/:id/like
func (h *RatingHandler) Unlike(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	if err := h.svc.Unlike(c.Context(), id, middleware.Viewer(c)); err != nil {
		return respondError(c, err, "Rating")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
