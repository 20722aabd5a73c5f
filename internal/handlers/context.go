package handlers

import (
	"github.com/gin-gonic/gin"

	"go-todo-web/internal/services"
)

// 認証・CSRFミドルウェアがginコンテキストに設定するキー。
const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextUserRoleKey = "user_role"
	ContextCSRFKey     = "csrf_token"
)

// ActorFrom はコンテキストからリクエストの主体を取り出します。
// 認証情報が無い場合は匿名のActorになります。
func ActorFrom(c *gin.Context) services.Actor {
	actor := services.Actor{}
	if v, exists := c.Get(ContextUserIDKey); exists {
		if id, ok := v.(int); ok {
			actor.UserID = &id
		}
	}
	actor.Username = c.GetString(ContextUsernameKey)
	actor.Role = c.GetString(ContextUserRoleKey)
	return actor
}

// CSRFTokenFrom はCSRFミドルウェアが発行したトークンを返します。
func CSRFTokenFrom(c *gin.Context) string {
	return c.GetString(ContextCSRFKey)
}
