package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"github.com/Klir-FH/MRP/pkg/hash"
)

// RateLimitConfig defines the limit for a specific route or group.
type RateLimitConfig struct {
	Max    int                      // Maximum requests allowed in the window
	Window time.Duration            // Time window for the limit
	KeyFn  func(c fiber.Ctx) string // Returns the key to rate limit on (IP, viewer, etc.)
	Store  CounterStore             // Defaults to an in-memory store
	Scope  string                   // Namespaces keys when limiters share a store
}

// CounterStore counts requests per key in fixed windows.
type CounterStore interface {
	// Incr counts one request for key and returns the count so far in the
	// current window and the time the window ends.
	Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
}

// entry tracks request count and window end for a single key.
type entry struct {
	count     int
	windowEnd time.Time
}

// MemoryStore keeps counters in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewMemoryStore creates a MemoryStore that drops expired keys every five minutes.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{entries: make(map[string]*entry)}
	go s.cleanup()
	return s
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e, exists := s.entries[key]
	if !exists || now.After(e.windowEnd) {
		e = &entry{windowEnd: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, e.windowEnd, nil
}

func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for key, e := range s.entries {
			if now.After(e.windowEnd) {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()
	}
}

// incrScript increments a counter and starts its expiry on first use.
var incrScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {n, redis.call('PTTL', KEYS[1])}
`)

// RedisStore shares counters between server instances.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "mrp:ratelimit:"}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	res, err := incrScript.Run(ctx, s.rdb, []string{s.prefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis incr %s: %w", key, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("redis incr %s: unexpected reply %v", key, res)
	}
	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	return int(res[0]), time.Now().Add(ttl), nil
}

// RateLimiter enforces a fixed-window request budget per key.
type RateLimiter struct {
	config RateLimitConfig
}

// NewRateLimiter creates a rate limiter with the given config.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	return &RateLimiter{config: cfg}
}

// Handler returns a Fiber middleware handler that enforces the rate limit.
// If the counter store fails the request is let through.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		key := rl.config.Scope + ":" + rl.config.KeyFn(c)
		count, windowEnd, err := rl.config.Store.Incr(c.Context(), key, rl.config.Window)
		if err != nil {
			Logger.Warn().Err(err).Str("request_id", RequestID(c)).Msg("rate limit store unavailable")
			return c.Next()
		}

		remaining := rl.config.Max - count
		setRateLimitHeaders(c, rl.config.Max, remaining, windowEnd)

		if remaining < 0 {
			retryAfter := int(time.Until(windowEnd).Seconds()) + 1
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fiber.Map{
					"code":       "RATE_LIMITED",
					"message":    fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter),
					"retryAfter": retryAfter,
				},
			})
		}

		return c.Next()
	}
}

// Allow checks if a request with the given key is allowed (for testing).
func (rl *RateLimiter) Allow(key string) bool {
	count, _, err := rl.config.Store.Incr(context.Background(), rl.config.Scope+":"+key, rl.config.Window)
	if err != nil {
		return true
	}
	return count <= rl.config.Max
}

func setRateLimitHeaders(c fiber.Ctx, limit, remaining int, resetAt time.Time) {
	c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
	c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(remaining, 0)))
	c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetAt.Unix()))
}

// KeyByIP returns the hashed client IP as the rate limit key.
func KeyByIP(c fiber.Ctx) string {
	return "ip:" + hash.IPKey(c.IP(), IPSalt)
}

// KeyByUserID keys on the viewer id stored by RequireViewer, or on the
// parsed X-User-ID header when RequireViewer has not run. Requests without a
// valid viewer fall back to the client IP.
func KeyByUserID(c fiber.Ctx) string {
	if id := Viewer(c); id > 0 {
		return "user:" + strconv.FormatInt(id, 10)
	}
	if id, errMsg := ViewerID(c); errMsg == "" && id != nil {
		return "user:" + strconv.FormatInt(*id, 10)
	}
	return KeyByIP(c)
}

// NewReadRateLimiter limits searches and other reads per IP.
func NewReadRateLimiter(perMinute int, store CounterStore) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Max:    perMinute,
		Window: time.Minute,
		KeyFn:  KeyByIP,
		Store:  store,
		Scope:  "read",
	})
}

// NewWriteRateLimiter limits ratings, marks and genre updates per viewer.
func NewWriteRateLimiter(perMinute int, store CounterStore) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Max:    perMinute,
		Window: time.Minute,
		KeyFn:  KeyByUserID,
		Store:  store,
		Scope:  "write",
	})
}
