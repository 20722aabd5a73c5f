package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-todo-web/internal/handlers"
	"go-todo-web/internal/ratelimit"
	"go-todo-web/internal/routes"
	"go-todo-web/internal/services"
)

// TestJWTSecret はテストルーターが使うJWT署名鍵です。
const TestJWTSecret = "test-secret-key-not-for-production"

// Fakes はテストルーターの背後にあるフェイクリポジトリ一式です。
type Fakes struct {
	Tasks    *FakeTaskRepository
	Users    *FakeUserRepository
	Contacts *FakeContactRepository
}

// RepoRoot はリポジトリのルートディレクトリを返します。テンプレートの
// 読み込みはテストの作業ディレクトリに依存しないようにします。
func RepoRoot() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Dir(filepath.Dir(thisFile))
}

// SetupTestRouter はフェイクリポジトリを使ったテスト用のGinルーターと、
// 検証用のフェイク一式を返します。外部データベースは不要です。
func SetupTestRouter(t *testing.T) (*gin.Engine, *Fakes) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	fakes := &Fakes{
		Tasks:    NewFakeTaskRepository(),
		Users:    NewFakeUserRepository(),
		Contacts: NewFakeContactRepository(),
	}

	// サービス
	taskService := services.NewTaskService(fakes.Tasks, logger)
	userService := services.NewUserService(fakes.Users, logger)
	contactService := services.NewContactService(fakes.Contacts, logger)
	jwtService := services.NewJWTService(TestJWTSecret)

	// ハンドラー
	taskHandler := handlers.NewTaskHandler(taskService, logger)
	userHandler := handlers.NewUserHandler(userService, jwtService, logger)
	contactHandler := handlers.NewContactHandler(contactService, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.LoadHTMLGlob(filepath.Join(RepoRoot(), "web", "templates", "*.html"))

	r.Use(handlers.ResponseModeMiddleware())
	r.Use(routes.CSRFMiddleware())
	r.Use(routes.CurrentUserMiddleware(jwtService))

	r.GET("/tasks", taskHandler.TaskListHandler)
	r.GET("/calendar", taskHandler.CalendarHandler)
	r.GET("/contact", contactHandler.ContactPageHandler)
	r.POST("/contact", contactHandler.ContactSubmitHandler)
	r.GET("/register", userHandler.RegisterPageHandler)
	r.POST("/register", userHandler.RegisterSubmitHandler)
	r.GET("/login", userHandler.LoginPageHandler)
	r.POST("/login", userHandler.LoginSubmitHandler)
	r.POST("/logout", userHandler.LogoutHandler)

	// テストではレート制限に引っかからないよう大きめの上限にする
	limiter := ratelimit.NewMemoryLimiter()
	mutations := r.Group("/tasks")
	mutations.Use(ratelimit.Middleware(limiter, 1000, time.Minute, logger))
	{
		mutations.POST("", taskHandler.CreateTaskHandler)
		mutations.POST("/:id/toggle", taskHandler.ToggleTaskHandler)
		mutations.POST("/:id/delete", taskHandler.DeleteTaskHandler)
	}

	return r, fakes
}

// GetCSRFToken はGETリクエストを発行してCSRF Cookieを取得します。
func GetCSRFToken(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == "csrf_token" {
			return cookie
		}
	}
	t.Fatal("csrf_token cookie was not issued")
	return nil
}

// PostForm はCSRFトークン付きのフォームPOSTを発行します。AJAXスタイルの
// リクエストにするには ajax にtrueを渡します。
func PostForm(t *testing.T, router *gin.Engine, path string, form url.Values, csrf *http.Cookie, ajax bool, extraCookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if csrf != nil {
		req.AddCookie(csrf)
		req.Header.Set("X-CSRF-Token", csrf.Value)
	}
	if ajax {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	for _, cookie := range extraCookies {
		req.AddCookie(cookie)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// LoginAndGetSession はユーザーを登録してログインし、セッションCookieを返します。
func LoginAndGetSession(t *testing.T, router *gin.Engine, username, password string) *http.Cookie {
	t.Helper()
	csrf := GetCSRFToken(t, router)

	registerForm := url.Values{
		"username":         {username},
		"password":         {password},
		"password_confirm": {password},
	}
	resp := PostForm(t, router, "/register", registerForm, csrf, false)
	require.Equal(t, http.StatusFound, resp.Code, "registration failed: %s", resp.Body.String())

	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == handlers.SessionCookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("session cookie was not issued on registration")
	return nil
}
