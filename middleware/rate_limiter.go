package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"xmail/utils"
)

// RateLimiter allows each client IP a burst of requests refilled evenly over
// duration. Idle clients are swept on later requests.
func RateLimiter(requests int, duration time.Duration) fiber.Handler {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	if requests <= 0 {
		requests = 100
	}
	if duration <= 0 {
		duration = time.Minute
	}

	var (
		clients   = make(map[string]*client)
		mu        sync.Mutex
		lastSweep = time.Now()
	)
	const idle = 10 * time.Minute

	return func(c *fiber.Ctx) error {
		ip := c.IP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > idle/2 {
			for key, cl := range clients {
				if now.Sub(cl.lastSeen) > idle {
					delete(clients, key)
				}
			}
			lastSweep = now
		}
		cl, exists := clients[ip]
		if !exists {
			cl = &client{limiter: rate.NewLimiter(rate.Every(duration/time.Duration(requests)), requests)}
			clients[ip] = cl
		}
		cl.lastSeen = now
		mu.Unlock()

		if !cl.limiter.Allow() {
			utils.Log.Warn("Rate limit exceeded for %s", ip)
			return utils.NewAppError(fiber.StatusTooManyRequests, utils.T(localizerFrom(c), "error_429"), nil)
		}

		return c.Next()
	}
}
