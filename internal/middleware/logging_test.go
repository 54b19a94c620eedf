package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/api/media", "/api/media"},
		{"/api/media/42/stats", "/api/media/:id/stats"},
		{"/api/users/7/profile", "/api/users/:id/profile"},
		{"/api/ratings/9/confirm", "/api/ratings/:id/confirm"},
		{"/health/live", "/health/live"},
	}
	for _, tt := range tests {
		if got := SanitizePath(tt.input); got != tt.want {
			t.Errorf("SanitizePath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(NewRequestID())
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})

	existing := uuid.NewString()
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when absent", "", false},
		{"replaced when malformed", "not-a-uuid", false},
		{"echoed when valid", existing, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error: %v", err)
			}
			resp.Body.Close()

			got := resp.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("response id %q is not a uuid", got)
			}
			if tt.keep && got != tt.incoming {
				t.Errorf("id = %q, want echoed %q", got, tt.incoming)
			}
			if !tt.keep && got == tt.incoming {
				t.Errorf("id = %q, want a new one", got)
			}
		})
	}
}
