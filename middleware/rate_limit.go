package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/otabek-dev/tutor_center/cache"
)

const (
	rateLimitPerWindow = 100
	rateLimitWindow    = time.Minute
)

// RateLimit enforces a fixed per-IP request window backed by Redis. When the
// cache is down the request is let through; throttling is not worth failing
// traffic for.
func RateLimit(cacheSvc *cache.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cacheSvc == nil {
			return c.Next()
		}

		key := "rate_limit:" + c.IP()
		current, err := cacheSvc.Client.Incr(c.Context(), key).Result()
		if err != nil {
			return c.Next()
		}
		if current == 1 {
			cacheSvc.Client.Expire(c.Context(), key, rateLimitWindow)
		}

		if current > rateLimitPerWindow {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please wait a moment.",
			})
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(rateLimitPerWindow))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(rateLimitPerWindow-current, 10))
		return c.Next()
	}
}
