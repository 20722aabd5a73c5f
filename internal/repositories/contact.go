package repositories

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"go-todo-web/internal/models"
)

// ContactRepository はお問い合わせメッセージのデータベース操作を行います。
type ContactRepository struct {
	DB     *sql.DB
	logger *zap.Logger
}

// NewContactRepository は新しいContactRepositoryインスタンスを作成します。
func NewContactRepository(db *sql.DB, logger *zap.Logger) *ContactRepository {
	return &ContactRepository{DB: db, logger: logger}
}

// Create は新しいお問い合わせメッセージを保存します。is_read は常にfalseで始まります。
func (r *ContactRepository) Create(m *models.ContactMessage) (*models.ContactMessage, error) {
	query := "INSERT INTO contact_messages (name, email, message) VALUES (?, ?, ?)"

	result, err := r.DB.Exec(query, m.Name, m.Email, m.Message)
	if err != nil {
		r.logger.Error("Failed to insert contact message", zap.Error(err))
		return nil, fmt.Errorf("could not insert contact message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	m.ID = int(id)
	m.IsRead = false
	return m, nil
}
