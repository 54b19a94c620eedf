package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Klir-FH/MRP/internal/middleware"
	"github.com/Klir-FH/MRP/internal/model"
	"github.com/Klir-FH/MRP/internal/service"
)

type InteractionHandler struct {
	svc *service.InteractionService
}

func NewInteractionHandler(svc *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

// Mark returns a handler for POST /api/media/:id/{like,favorite}.
func (h *InteractionHandler) Mark(t model.InteractionType) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, errMsg := pathID(c)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		if err := h.svc.Mark(c.Context(), middleware.Viewer(c), id, t); err != nil {
			return respondError(c, err, "Media entry")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Unmark returns a handler for DELETE /api/media/:id/{like,favorite}.
func (h *InteractionHandler) Unmark(t model.InteractionType) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, errMsg := pathID(c)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		if err := h.svc.Unmark(c.Context(), middleware.Viewer(c), id, t); err != nil {
			return respondError(c, err, "Media entry")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
