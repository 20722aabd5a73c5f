// Package handlers はHTTPハンドラーを提供します。
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResponseMode はレスポンスの形式を表す列挙型です。ヘッダーの再解釈を避けるため、
// ミドルウェアがリクエスト毎に一度だけ分類し、ハンドラーはこの値で分岐します。
type ResponseMode int

const (
	// ModeHTML はページ全体の再描画 (リダイレクト) を要求します。
	ModeHTML ResponseMode = iota
	// ModeJSON は機械可読なJSONエンベロープを要求します。
	ModeJSON
)

const responseModeKey = "response_mode"

// ResponseModeMiddleware はリクエストをResponseModeに分類します。
// X-Requested-With: XMLHttpRequest マーカーを持つリクエストがJSONモードです。
func ResponseModeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := ModeHTML
		if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
			mode = ModeJSON
		}
		c.Set(responseModeKey, mode)
		c.Next()
	}
}

// ModeOf はミドルウェアが分類したResponseModeを返します。
func ModeOf(c *gin.Context) ResponseMode {
	if v, exists := c.Get(responseModeKey); exists {
		if mode, ok := v.(ResponseMode); ok {
			return mode
		}
	}
	return ModeHTML
}

// respondSuccess はミューテーション成功を返します。JSONモードでは
// {success:true, ...} のエンベロープ、HTMLモードでは一覧へのリダイレクトです。
func respondSuccess(c *gin.Context, fields gin.H, flashMessage string) {
	if ModeOf(c) == ModeJSON {
		body := gin.H{"success": true}
		for k, v := range fields {
			body[k] = v
		}
		c.JSON(http.StatusOK, body)
		return
	}
	if flashMessage != "" {
		SetFlash(c, FlashSuccess, flashMessage)
	}
	c.Redirect(http.StatusFound, "/tasks")
}

// respondFailure はミューテーション失敗を返します。JSONモードでは
// {success:false, ...}、HTMLモードではフラッシュ付きリダイレクトです。
func respondFailure(c *gin.Context, status int, fields gin.H, flashMessage string) {
	if ModeOf(c) == ModeJSON {
		body := gin.H{"success": false}
		for k, v := range fields {
			body[k] = v
		}
		c.JSON(status, body)
		return
	}
	if flashMessage != "" {
		SetFlash(c, FlashError, flashMessage)
	}
	c.Redirect(http.StatusFound, "/tasks")
}
