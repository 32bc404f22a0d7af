package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"beforeafter/storage"
	"beforeafter/utils"
)

// RateLimiter limits each client IP to requests per duration. The settings
// panel fires one event per edit, so bursts up to requests are allowed.
// Limiters of clients idle for ten minutes are dropped.
func RateLimiter(requests int, duration time.Duration) fiber.Handler {
	clients := storage.NewCache[*rate.Limiter](10 * time.Minute)
	clients.StartCleanup(5 * time.Minute)

	every := rate.Every(duration / time.Duration(requests))

	return func(c *fiber.Ctx) error {
		ip := c.IP()

		limiter, _ := clients.GetOrCreate(ip, func() (*rate.Limiter, error) {
			return rate.NewLimiter(every, requests), nil
		})
		clients.Touch(ip)

		if !limiter.Allow() {
			utils.Log.Warn("Rate limit exceeded for %s on %s", ip, c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		}

		return c.Next()
	}
}
