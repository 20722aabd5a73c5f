package ratelimit

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware はクライアントIP毎にミューテーションを制限するginミドルウェアを返します。
// 制限を超えたリクエストは429と {success:false} のエンベロープで拒否されます。
// Limiter自体の障害時はリクエストを通します (fail-open)。
func Middleware(limiter Limiter, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Allow(c.Request.Context(), c.ClientIP(), limit, window)
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}
		if !result.Allowed {
			c.Header("Retry-After", result.ResetAt.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "too many requests",
			})
			return
		}
		c.Next()
	}
}
