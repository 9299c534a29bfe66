package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/teamlog/teamlog-backend/internal/common"
	"github.com/teamlog/teamlog-backend/pkg/logger"
)

// RateLimitConfig configures the write throttle
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyPrefix         string
	Window            time.Duration
}

// DefaultRateLimitConfig returns the default write throttle
func DefaultRateLimitConfig(requestsPerMinute int) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		KeyPrefix:         "teamlog:ratelimit:",
		Window:            time.Minute,
	}
}

// rateLimitScript is an atomic sliding window counter
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, member)
    redis.call('PEXPIRE', key, window + 1000)
    return {1, limit - count - 1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local reset_at = 0
if #oldest >= 2 then
    reset_at = tonumber(oldest[2]) + window
end
return {0, 0, reset_at}
`)

// rateLimitKey buckets by client IP. X-User-ID is unauthenticated, so it never picks the bucket.
func rateLimitKey(c *gin.Context, prefix string) string {
	return prefix + "ip:" + c.ClientIP()
}

// RateLimit throttles writes per client IP.
// A nil client disables throttling and Redis errors fail open.
func RateLimit(redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil || cfg.RequestsPerMinute <= 0 {
			c.Next()
			return
		}

		now := time.Now()
		nowMs := now.UnixMilli()
		windowMs := cfg.Window.Milliseconds()
		member := fmt.Sprintf("%d:%d", now.UnixNano(), nowMs%1000)

		result, err := rateLimitScript.Run(c.Request.Context(), redisClient,
			[]string{rateLimitKey(c, cfg.KeyPrefix)},
			cfg.RequestsPerMinute, windowMs, nowMs, member,
		).Int64Slice()
		if err != nil {
			logger.GetLogger().Warn().Err(err).Msg("rate limit check failed, allowing request")
			c.Next()
			return
		}

		allowed, remaining, resetAt := result[0] == 1, result[1], result[2]
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			retryAfter := (resetAt - nowMs) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			common.ErrorResponse(c, http.StatusTooManyRequests, "Too many requests, slow down", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
