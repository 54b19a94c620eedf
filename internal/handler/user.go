package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Klir-FH/MRP/internal/middleware"
	"github.com/Klir-FH/MRP/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Profile handles GET /api/users/:id/profile
func (h *UserHandler) Profile(c fiber.Ctx) error {
	userID, errMsg := pathID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	profile, err := h.svc.Profile(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "User")
	}
	return c.JSON(profile)
}

// Leaderboard handles GET /api/leaderboard?limit=N
func (h *UserHandler) Leaderboard(c fiber.Ctx) error {
	limit, errMsg := middleware.ValidateLimit(fiber.Query[string](c, "limit"), service.MaxLeaderboardLimit)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	entries, err := h.svc.Leaderboard(c.Context(), limit)
	if err != nil {
		return respondError(c, err, "Leaderboard")
	}
	return c.JSON(entries)
}
