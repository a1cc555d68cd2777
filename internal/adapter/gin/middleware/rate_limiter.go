package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/config"
	"contacts-api/pkg/redis"
)

// Fixed-window counter implemented in Lua for atomicity. The first hit of a
// window creates the key with the window TTL, every hit increments it.
const rateLimitScript = `
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local count = redis.call('INCR', key)
	if count == 1 then
		redis.call('EXPIRE', key, window)
	end
	if count > limit then
		return 0
	end
	return 1
`

// RateLimiter returns a Gin middleware limiting requests per client IP using
// a fixed window counter in Redis. Redis errors fail open.
func RateLimiter(cfg config.RateLimitConfig, redisClient *redis.Client, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || redisClient == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s:%s", c.Request.Method, c.FullPath(), c.ClientIP())

		allowed, err := redisClient.Eval(c.Request.Context(), rateLimitScript, []string{key},
			cfg.MaxRequests,
			cfg.WindowSeconds,
		).Int64()
		if err != nil {
			log.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}

		if allowed == 0 {
			log.Warn("rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.FullPath()),
			)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": fmt.Sprintf("Rate limit exceeded: %d requests per %d seconds", cfg.MaxRequests, cfg.WindowSeconds),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
