package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RateLimitConfig описывает одно окно лимитирования
type RateLimitConfig struct {
	// MaxRequests — максимум запросов с одного IP за Window
	MaxRequests int
	Window      time.Duration
	// KeyPrefix разделяет счетчики разных групп эндпоинтов
	KeyPrefix string
}

// AuthRateLimitConfig — лимит для login/register/guest (защита от brute-force)
func AuthRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{MaxRequests: 5, Window: time.Minute, KeyPrefix: "rl:auth"}
}

// RaceCreateRateLimitConfig — лимит на создание гонок: один клиент не должен
// выедать пространство четырехзначных кодов
func RaceCreateRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{MaxRequests: 10, Window: time.Minute, KeyPrefix: "rl:race:create"}
}

// RateLimiter ведет счетчики запросов в Redis.
// Счетчик общий для всех реплик API: лимит держится и за балансировщиком.
type RateLimiter struct {
	client redis.UniversalClient
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(client redis.UniversalClient) *RateLimiter {
	return &RateLimiter{client: client}
}

// Limit возвращает gin-middleware, считающее запросы по ключу IP+path.
// Недоступность Redis не блокирует трафик (fail-open).
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := fmt.Sprintf("%s:%s:%s", cfg.KeyPrefix, c.ClientIP(), path)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		count64, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("[RateLimiter] Ошибка Redis для ключа %s: %v, запрос пропущен", key, err)
			c.Next()
			return
		}
		count := int(count64)

		// TTL ставится только на первом запросе окна, иначе окно никогда
		// не истечет под постоянным трафиком
		if count == 1 {
			if err := rl.client.Expire(ctx, key, cfg.Window).Err(); err != nil {
				log.Printf("[RateLimiter] Не удалось выставить TTL ключа %s: %v", key, err)
			}
		}

		remaining := cfg.MaxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		retryAfter := int(cfg.Window.Seconds())

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(retryAfter))

		if count > cfg.MaxRequests {
			log.Printf("[RateLimiter] Превышен лимит: ip=%s path=%s count=%d limit=%d",
				c.ClientIP(), path, count, cfg.MaxRequests)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Please try again later.",
				"error_type":  "rate_limited",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
