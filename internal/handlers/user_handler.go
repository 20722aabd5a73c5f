package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-todo-web/internal/models"
	"go-todo-web/internal/services"
)

// セッションCookieの名前と寿命 (秒)。JWT自体の有効期限と揃えています。
const (
	SessionCookieName   = "session_token"
	sessionCookieMaxAge = 60 * 60 * 24
)

// tokenIssuer はセッション開始に必要なJWT生成操作です。
type tokenIssuer interface {
	GenerateToken(userID int, username, role string) (string, error)
}

// UserHandler はユーザー関連のハンドラーを管理します。
type UserHandler struct {
	userService *services.UserService
	jwtService  tokenIssuer
	logger      *zap.Logger
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(userService *services.UserService, jwtService tokenIssuer, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, jwtService: jwtService, logger: logger}
}

// RegisterPageHandler は登録フォームを表示します。ログイン済みなら一覧へ。
func (h *UserHandler) RegisterPageHandler(c *gin.Context) {
	if ActorFrom(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/tasks")
		return
	}
	h.renderRegister(c, http.StatusOK, models.UserRegisterForm{}, nil)
}

// RegisterSubmitHandler は新規ユーザーを登録し、そのままログインさせます。
// 必須・最小文字数・確認一致はbindingタグで検証されます。
func (h *UserHandler) RegisterSubmitHandler(c *gin.Context) {
	var form models.UserRegisterForm
	if err := c.ShouldBind(&form); err != nil {
		form.Password = ""
		form.PasswordConfirm = ""
		h.renderRegister(c, http.StatusBadRequest, form, bindingErrors(err).Fields)
		return
	}

	user, err := h.userService.RegisterUser(form)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			form.Password = ""
			form.PasswordConfirm = ""
			h.renderRegister(c, http.StatusBadRequest, form, verr.Fields)
			return
		}
		h.logger.Error("Failed to register user", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to register")
		return
	}

	if err := h.startSession(c, user); err != nil {
		c.String(http.StatusInternalServerError, "Failed to start session")
		return
	}
	SetFlash(c, FlashSuccess, "Welcome, "+user.Username+"! Registration successful.")
	c.Redirect(http.StatusFound, "/tasks")
}

// LoginPageHandler はログインフォームを表示します。ログイン済みなら一覧へ。
func (h *UserHandler) LoginPageHandler(c *gin.Context) {
	if ActorFrom(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/tasks")
		return
	}
	h.renderLogin(c, http.StatusOK, models.UserLoginForm{}, "")
}

// LoginSubmitHandler はユーザーを認証し、セッションCookieを設定します。
func (h *UserHandler) LoginSubmitHandler(c *gin.Context) {
	var form models.UserLoginForm
	if err := c.ShouldBind(&form); err != nil {
		// 空のフォームもパスワード違いと同じ応答にする
		form.Password = ""
		h.renderLogin(c, http.StatusUnauthorized, form, "Invalid username or password.")
		return
	}

	user, err := h.userService.AuthenticateUser(form)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			form.Password = ""
			h.renderLogin(c, http.StatusUnauthorized, form, "Invalid username or password.")
			return
		}
		h.logger.Error("Failed to authenticate user", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to log in")
		return
	}

	if err := h.startSession(c, user); err != nil {
		c.String(http.StatusInternalServerError, "Failed to start session")
		return
	}
	SetFlash(c, FlashSuccess, "Welcome, "+user.Username+"!")
	c.Redirect(http.StatusFound, "/tasks")
}

// LogoutHandler はセッションCookieを破棄します。
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	SetFlash(c, FlashSuccess, "You have been logged out.")
	c.Redirect(http.StatusFound, "/tasks")
}

// startSession はJWTセッションCookieを設定します。トークン生成に失敗した場合は
// Cookieを設定せずエラーを返すため、呼び出し側は成功を装わずに応答できます。
func (h *UserHandler) startSession(c *gin.Context, user *models.User) error {
	token, err := h.jwtService.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		h.logger.Error("Failed to generate session token", zap.Error(err))
		return err
	}
	c.SetCookie(SessionCookieName, token, sessionCookieMaxAge, "/", "", false, true)
	return nil
}

func (h *UserHandler) renderRegister(c *gin.Context, status int, form models.UserRegisterForm, fieldErrors map[string][]string) {
	c.HTML(status, "register.html", gin.H{
		"PageTitle": "Register",
		"Form":      form,
		"Errors":    fieldErrors,
		"CSRFToken": CSRFTokenFrom(c),
		"Flash":     PopFlash(c),
	})
}

func (h *UserHandler) renderLogin(c *gin.Context, status int, form models.UserLoginForm, errorMessage string) {
	c.HTML(status, "login.html", gin.H{
		"PageTitle": "Log In",
		"Form":      form,
		"Error":     errorMessage,
		"CSRFToken": CSRFTokenFrom(c),
		"Flash":     PopFlash(c),
	})
}
