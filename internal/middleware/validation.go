package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// ViewerHeader carries the caller's user id, resolved by the upstream
// identity layer.
const ViewerHeader = "X-User-ID"

// MaxIDListLen bounds comma-separated id lists in query strings.
const MaxIDListLen = 200

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateID parses a positive integer id.
func ValidateID(raw, field string) (int64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, field + " is required"
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, field + " must be a positive integer"
	}
	return id, ""
}

// ValidateIDList parses a comma-separated list of positive ids.
func ValidateIDList(raw, field string) ([]int64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, field + " is required"
	}
	parts := strings.Split(raw, ",")
	if len(parts) > MaxIDListLen {
		return nil, field + " must contain at most " + strconv.Itoa(MaxIDListLen) + " ids"
	}
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, errMsg := ValidateID(p, field)
		if errMsg != "" {
			return nil, field + " must be a comma-separated list of positive integers"
		}
		ids = append(ids, id)
	}
	return ids, ""
}

// ValidateLimit parses an optional limit. Empty input yields 0, which
// callers treat as "use the default".
func ValidateLimit(raw string, maxLimit int) (int, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ""
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxLimit {
		return 0, "limit must be between 1 and " + strconv.Itoa(maxLimit)
	}
	return n, ""
}

// ViewerID returns the optional viewer id from the X-User-ID header.
func ViewerID(c fiber.Ctx) (*int64, string) {
	raw := c.Get(ViewerHeader)
	if strings.TrimSpace(raw) == "" {
		return nil, ""
	}
	id, errMsg := ValidateID(raw, ViewerHeader)
	if errMsg != "" {
		return nil, errMsg
	}
	return &id, ""
}

// RequireViewer rejects requests without a valid X-User-ID header and stores
// the parsed id for Viewer.
func RequireViewer() fiber.Handler {
	return func(c fiber.Ctx) error {
		id, errMsg := ViewerID(c)
		if errMsg != "" {
			return ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		if id == nil {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "X-User-ID header is required")
		}
		c.Locals(viewerKey, *id)
		return c.Next()
	}
}

const viewerKey = "viewerId"

// Viewer returns the id stored by RequireViewer.
func Viewer(c fiber.Ctx) int64 {
	id, _ := c.Locals(viewerKey).(int64)
	return id
}
