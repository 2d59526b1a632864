package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GameRateLimit limits game endpoints per user instead of per IP. Requires
// the JWT middleware to have stored "user_id" in the context.
func GameRateLimit(maxGames int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		userID, ok := userIDVal.(int64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
			return
		}

		key := "game_rl:" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		ctx := context.Background()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			c.Header("X-GameRateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		remaining := int64(maxGames) - val
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-GameRateLimit-Limit", strconv.Itoa(maxGames))
		c.Header("X-GameRateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if val > int64(maxGames) {
			RLBlocked.WithLabelValues("game:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "game rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("game:" + c.FullPath()).Inc()
		c.Next()
	}
}
