// Package routesはroutingを行います。
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-todo-web/internal/handlers"
	"go-todo-web/internal/services"
)

// CurrentUserMiddleware はセッションCookieのJWTを検証し、ユーザー情報を
// コンテキストに設定するミドルウェアです。Cookieが無い・無効な場合は
// 匿名リクエストとして続行します。匿名でも所有者の無いタスクは操作できます。
func CurrentUserMiddleware(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(handlers.SessionCookieName)
		if err != nil || tokenString == "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			// 失効・改竄されたCookieは破棄して匿名として扱う
			c.SetCookie(handlers.SessionCookieName, "", -1, "/", "", false, true)
			c.Next()
			return
		}

		c.Set(handlers.ContextUserIDKey, claims.UserID)
		c.Set(handlers.ContextUsernameKey, claims.Username)
		c.Set(handlers.ContextUserRoleKey, claims.Role)
		c.Next()
	}
}

// RequestLogger はリクエスト毎に1行のアクセスログをzapで出力します。
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
