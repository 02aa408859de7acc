package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Rule is a named per-client request budget.
type Rule struct {
	Name        string
	MaxRequests int
	Window      time.Duration
}

// Reset-flow entry points get distinct budgets per client IP. Request and
// confirm are deliberately tight; verify allows a few typos.
var (
	RuleResetRequest = Rule{Name: "password_reset_request", MaxRequests: 3, Window: time.Hour}
	RuleResetVerify  = Rule{Name: "password_reset_verify", MaxRequests: 10, Window: time.Minute}
	RuleResetConfirm = Rule{Name: "password_reset_confirm", MaxRequests: 3, Window: time.Hour}
	RuleLogin        = Rule{Name: "login", MaxRequests: 10, Window: 15 * time.Minute}
	RuleRegister     = Rule{Name: "register", MaxRequests: 3, Window: time.Hour}
)

// RateLimiter decides whether a client identified by key may proceed under a
// rule. Injected so tests can swap in a deterministic implementation.
type RateLimiter interface {
	Allow(ctx context.Context, key string, rule Rule) (allowed bool, remaining int, err error)
}

type redisRateLimiter struct {
	client *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) RateLimiter {
	return &redisRateLimiter{client: client}
}

// Sliding window over a sorted set, evaluated atomically in Redis.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window_start = tonumber(ARGV[2])
local max_requests = tonumber(ARGV[3])
local window_seconds = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, 0, window_start)

local current = redis.call('ZCARD', key)
if current >= max_requests then
	return {0, 0}
end

redis.call('ZADD', key, now, now .. '-' .. redis.call('INCR', key .. ':seq'))
redis.call('EXPIRE', key, window_seconds + 60)
redis.call('EXPIRE', key .. ':seq', window_seconds + 60)

local remaining = max_requests - current - 1
if remaining < 0 then remaining = 0 end

return {1, remaining}
`

func (r *redisRateLimiter) Allow(ctx context.Context, key string, rule Rule) (bool, int, error) {
	now := time.Now().UnixMilli()
	windowStart := now - rule.Window.Milliseconds()
	redisKey := fmt.Sprintf("rate:sw:%s:%s", rule.Name, key)

	result, err := r.client.Eval(ctx, slidingWindowScript, []string{redisKey},
		now, windowStart, rule.MaxRequests, int(rule.Window.Seconds())).Result()
	if err != nil {
		return false, 0, err
	}

	results := result.([]interface{})
	allowed := results[0].(int64) == 1
	remaining := int(results[1].(int64))
	return allowed, remaining, nil
}

// RateLimit guards a route with the given rule, keyed per client IP. It runs
// before the handler; a denied request never reaches business logic. A
// limiter backend failure fails open.
func RateLimit(limiter RateLimiter, rule Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		allowed, remaining, err := limiter.Allow(c.Request.Context(), c.ClientIP(), rule)
		if err != nil {
			log.Error().Err(err).Str("rule", rule.Name).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rule.MaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if !allowed {
			log.Warn().Str("rule", rule.Name).Str("ip", c.ClientIP()).Msg("rate limit exceeded")
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(rule.Window).Unix()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"message":     fmt.Sprintf("Too many requests, please try again in %v", rule.Window),
				"code":        "RATE_LIMITED",
				"retry_after": int(rule.Window.Seconds()),
			})
			return
		}

		c.Next()
	}
}
