package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-todo-web/internal/models"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrUserNotFound      = errors.New("user not found")
)

// UserRepository はユーザーのデータベース操作を行うための構造体です。
type UserRepository struct {
	DB     *sql.DB
	logger *zap.Logger
}

// NewUserRepository は新しいUserRepositoryインスタンスを作成します。
func NewUserRepository(db *sql.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{DB: db, logger: logger}
}

// HashPassword は与えられたパスワードをbcryptでハッシュ化します。
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// VerifyPassword はハッシュ化されたパスワードと平文のパスワードを比較します。
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// Create は新しいユーザーをデータベースに挿入します。
func (r *UserRepository) Create(u *models.User) (*models.User, error) {
	query := "INSERT INTO users (username, email, password_hash, role) VALUES (?, ?, ?, ?)"
	var email any
	if u.Email != "" {
		email = u.Email
	}
	result, err := r.DB.Exec(query, u.Username, email, u.PasswordHash, u.Role)
	if err != nil {
		// MySQLの重複エントリーエラーコード1062をチェック
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			if strings.Contains(mysqlErr.Message, "username") {
				return nil, ErrDuplicateUsername
			}
			return nil, ErrDuplicateEmail
		}
		r.logger.Error("Failed to insert user", zap.Error(err), zap.String("username", u.Username))
		return nil, fmt.Errorf("could not insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	u.ID = int(id)
	return u, nil
}

// FindByUsername はユーザー名でユーザーを検索します。
func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	query := "SELECT id, username, COALESCE(email, ''), password_hash, role, created_at, updated_at FROM users WHERE username = ?"
	var u models.User
	err := r.DB.QueryRow(query, username).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		r.logger.Error("Failed to query user by username", zap.Error(err))
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}
