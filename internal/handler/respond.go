package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Klir-FH/MRP/internal/middleware"
	"github.com/Klir-FH/MRP/internal/model"
	"github.com/Klir-FH/MRP/internal/validation"
)

// respondError maps domain errors to API errors. what names the resource in
// messages, e.g. "Media entry".
func respondError(c fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", what+" not found")
	case errors.Is(err, model.ErrConflict):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "CONFLICT", what+" already exists")
	case errors.Is(err, model.ErrForbidden):
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Not allowed to modify this "+strings.ToLower(what))
	case errors.Is(err, model.ErrInvalidInput):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
	}

	middleware.Logger.Error().Err(err).
		Str("request_id", middleware.RequestID(c)).
		Str("resource", what).
		Msg("request failed")
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// bindJSON decodes and validates a request body. It writes the error
// response itself and reports whether the handler should continue.
func bindJSON(c fiber.Ctx, out any) (bool, error) {
	if err := c.Bind().JSON(out); err != nil {
		return false, middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if errMsg := validation.Struct(out); errMsg != "" {
		return false, middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	return true, nil
}

// pathID parses the :id route parameter.
func pathID(c fiber.Ctx) (int64, string) {
	return middleware.ValidateID(c.Params("id"), "id")
}
