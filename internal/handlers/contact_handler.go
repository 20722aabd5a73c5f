package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-todo-web/internal/models"
	"go-todo-web/internal/services"
)

// ContactHandler はお問い合わせページのハンドラーを管理します。
type ContactHandler struct {
	contactService *services.ContactService
	logger         *zap.Logger
}

// NewContactHandler は新しいContactHandlerを作成します。
func NewContactHandler(contactService *services.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contactService: contactService, logger: logger}
}

// ContactPageHandler はお問い合わせフォームを表示します。
func (h *ContactHandler) ContactPageHandler(c *gin.Context) {
	h.renderContact(c, http.StatusOK, services.ContactInput{}, nil)
}

// ContactSubmitHandler はお問い合わせフォームの送信を処理します。
// 検証に失敗した場合は入力値とフィールドエラーを保持したままフォームを再表示します。
func (h *ContactHandler) ContactSubmitHandler(c *gin.Context) {
	var form models.ContactForm
	if err := c.ShouldBind(&form); err != nil {
		in := services.ContactInput{Name: form.Name, Email: form.Email, Message: form.Message}
		h.renderContact(c, http.StatusBadRequest, in, bindingErrors(err).Fields)
		return
	}

	in := services.ContactInput{
		Name:    form.Name,
		Email:   form.Email,
		Message: form.Message,
	}

	if _, err := h.contactService.SubmitMessage(in); err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			h.renderContact(c, http.StatusBadRequest, in, verr.Fields)
			return
		}
		h.logger.Error("Failed to save contact message", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to save your message")
		return
	}

	SetFlash(c, FlashSuccess, "Thank you for your message! We will get back to you soon.")
	c.Redirect(http.StatusFound, "/contact")
}

func (h *ContactHandler) renderContact(c *gin.Context, status int, in services.ContactInput, fieldErrors map[string][]string) {
	actor := ActorFrom(c)
	c.HTML(status, "contact.html", gin.H{
		"PageTitle": "Contact Us",
		"Form":      in,
		"Errors":    fieldErrors,
		"CSRFToken": CSRFTokenFrom(c),
		"Username":  actor.Username,
		"Flash":     PopFlash(c),
	})
}
