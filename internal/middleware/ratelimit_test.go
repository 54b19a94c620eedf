package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
)

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    5,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	})

	for i := 0; i < 5; i++ {
		if !rl.Allow("test-ip") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_BlocksAfterMax(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    3,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	})

	for i := 0; i < 3; i++ {
		rl.Allow("test-ip")
	}

	if rl.Allow("test-ip") {
		t.Fatal("4th request should be blocked")
	}
}

func TestRateLimiter_DifferentKeysIndependent(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    2,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	})

	rl.Allow("ip-a")
	rl.Allow("ip-a")

	if rl.Allow("ip-a") {
		t.Fatal("ip-a should be blocked")
	}
	if !rl.Allow("ip-b") {
		t.Fatal("ip-b should be allowed (independent key)")
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    2,
		Window: 50 * time.Millisecond,
		KeyFn:  KeyByIP,
	})

	rl.Allow("test")
	rl.Allow("test")

	if rl.Allow("test") {
		t.Fatal("should be blocked within window")
	}

	time.Sleep(60 * time.Millisecond)

	if !rl.Allow("test") {
		t.Fatal("should be allowed after window reset")
	}
}

func TestRateLimiter_SharedStoreScopes(t *testing.T) {
	store := NewMemoryStore()
	reads := NewReadRateLimiter(1, store)
	writes := NewWriteRateLimiter(1, store)

	if !reads.Allow("k") {
		t.Fatal("first read should be allowed")
	}
	if !writes.Allow("k") {
		t.Fatal("first write should be allowed (separate scope)")
	}
	if reads.Allow("k") || writes.Allow("k") {
		t.Fatal("second request in each scope should be blocked")
	}
}

func TestRateLimiter_WriteConfig(t *testing.T) {
	rl := NewWriteRateLimiter(10, nil)
	for i := 0; i < 10; i++ {
		if !rl.Allow("user:7") {
			t.Fatalf("write request %d should be allowed (max 10)", i+1)
		}
	}
	if rl.Allow("user:7") {
		t.Fatal("11th write should be blocked")
	}
}

func TestRateLimiter_Handler(t *testing.T) {
	rl := NewWriteRateLimiter(2, nil)
	app := fiber.New()
	app.Post("/w", rl.Handler(), func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	want := []int{fiber.StatusNoContent, fiber.StatusNoContent, fiber.StatusTooManyRequests}
	for i, status := range want {
		req := httptest.NewRequest("POST", "/w", nil)
		req.Header.Set(ViewerHeader, "5")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() error: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != status {
			t.Errorf("request %d: status = %d, want %d", i+1, resp.StatusCode, status)
		}
		if resp.Header.Get("X-RateLimit-Limit") != "2" {
			t.Errorf("request %d: X-RateLimit-Limit = %q, want 2", i+1, resp.Header.Get("X-RateLimit-Limit"))
		}
	}
}

func TestRateLimiter_WriteKeyUsesParsedViewer(t *testing.T) {
	rl := NewWriteRateLimiter(2, nil)
	app := fiber.New()
	app.Post("/w", RequireViewer(), rl.Handler(), func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	headers := []string{"7", "07", " 7"}
	want := []int{fiber.StatusNoContent, fiber.StatusNoContent, fiber.StatusTooManyRequests}
	for i, h := range headers {
		req := httptest.NewRequest("POST", "/w", nil)
		req.Header.Set(ViewerHeader, h)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() error: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != want[i] {
			t.Errorf("header %q: status = %d, want %d", h, resp.StatusCode, want[i])
		}
	}
}

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int, time.Time, error) {
	return 0, time.Time{}, errors.New("redis down")
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	rl := NewReadRateLimiter(1, failingStore{})
	for i := 0; i < 3; i++ {
		if !rl.Allow("k") {
			t.Fatalf("request %d should pass when the store is down", i+1)
		}
	}
}
