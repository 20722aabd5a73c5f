package services

import (
	"strings"

	"go.uber.org/zap"

	"go-todo-web/internal/models"
)

// ContactRepository はContactServiceが必要とする永続化操作です。
type ContactRepository interface {
	Create(m *models.ContactMessage) (*models.ContactMessage, error)
}

// ContactService はお問い合わせフォームのビジネスロジックを扱います。
type ContactService struct {
	contactRepo ContactRepository
	logger      *zap.Logger
}

// NewContactService は新しいContactServiceを作成します。
func NewContactService(contactRepo ContactRepository, logger *zap.Logger) *ContactService {
	return &ContactService{contactRepo: contactRepo, logger: logger}
}

// ContactInput はお問い合わせフォームの入力です。必須・文字数上限・メール形式は
// トランスポート層のバインディングで検証済みです。
type ContactInput struct {
	Name    string
	Email   string
	Message string
}

// SubmitMessage はトリム後の空チェックを行い、お問い合わせメッセージを保存します。
// 検証に失敗した場合は *ValidationError を返します。
func (s *ContactService) SubmitMessage(in ContactInput) (*models.ContactMessage, error) {
	verr := NewValidationError()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		verr.Add("name", "Name must not be empty")
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		verr.Add("email", "Email must not be empty")
	}

	message := strings.TrimSpace(in.Message)
	if message == "" {
		verr.Add("message", "Message must not be empty")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	created, err := s.contactRepo.Create(&models.ContactMessage{
		Name:    name,
		Email:   email,
		Message: message,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Contact message received", zap.Int("message_id", created.ID))
	return created, nil
}
