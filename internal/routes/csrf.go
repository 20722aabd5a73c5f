package routes

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-todo-web/internal/handlers"
)

const (
	csrfCookieName   = "csrf_token"
	csrfHeaderName   = "X-CSRF-Token"
	csrfFormField    = "csrf_token"
	csrfCookieMaxAge = 60 * 60 * 12
)

// CSRFMiddleware はダブルサブミットCookie方式のCSRF対策を行います。
// ページ描画時にトークンを発行し、すべてのミューテーションでCookieの値と
// フォームフィールドまたはX-CSRF-Tokenヘッダーの一致を要求します。
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(csrfCookieName)
		if err != nil || token == "" {
			token = uuid.NewString()
			c.SetCookie(csrfCookieName, token, csrfCookieMaxAge, "/", "", false, true)
		}
		// テンプレートがフォームとmetaタグに埋め込めるように公開する
		c.Set(handlers.ContextCSRFKey, token)

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		submitted := c.GetHeader(csrfHeaderName)
		if submitted == "" {
			submitted = c.PostForm(csrfFormField)
		}
		if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
			if handlers.ModeOf(c) == handlers.ModeJSON {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"error":   "invalid or missing CSRF token",
				})
				return
			}
			c.String(http.StatusForbidden, "invalid or missing CSRF token")
			c.Abort()
			return
		}
		c.Next()
	}
}
