package handlers

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// Flash はリダイレクト先のページで一度だけ表示される通知メッセージです。
type Flash struct {
	Level   string // "success" または "error"
	Message string
}

const (
	FlashSuccess = "success"
	FlashError   = "error"

	flashCookieName = "flash"
)

// SetFlash はフラッシュメッセージをCookieに格納します。
func SetFlash(c *gin.Context, level, message string) {
	value := url.QueryEscape(level + "|" + message)
	c.SetCookie(flashCookieName, value, 60, "/", "", false, true)
}

// PopFlash はフラッシュメッセージを取り出し、Cookieを消去します。
// メッセージが無い場合はnilを返します。
func PopFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)

	value, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	level, message, found := strings.Cut(value, "|")
	if !found {
		return nil
	}
	return &Flash{Level: level, Message: message}
}
