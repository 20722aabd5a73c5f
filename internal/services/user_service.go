package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go-todo-web/internal/models"
	"go-todo-web/internal/repositories"
)

// ErrInvalidCredentials はユーザー名またはパスワードが一致しない場合のエラーです。
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository はUserServiceが必要とする永続化操作です。
type UserRepository interface {
	Create(u *models.User) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
}

// UserService はユーザー関連のビジネスロジックを扱います。
type UserService struct {
	userRepo UserRepository
	logger   *zap.Logger
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(userRepo UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// RegisterUser はユーザーを登録します。フォームの形式検証 (必須・最小文字数・
// 確認一致・メール形式) はbindingタグで済んでいるため、ここではリポジトリでしか
// 判定できない重複チェックを *ValidationError に写します。
func (s *UserService) RegisterUser(form models.UserRegisterForm) (*models.User, error) {
	hashedPassword, err := repositories.HashPassword(form.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := &models.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: hashedPassword,
		Role:         "user",
	}

	createdUser, err := s.userRepo.Create(newUser)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateUsername) {
			verr := NewValidationError()
			verr.Add("username", "This username is already taken")
			return nil, verr
		}
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			verr := NewValidationError()
			verr.Add("email", "This email is already registered")
			return nil, verr
		}
		return nil, err
	}
	s.logger.Info("User registered", zap.Int("user_id", createdUser.ID), zap.String("username", createdUser.Username))
	createdUser.PasswordHash = "" // レスポンスにパスワードを含めない
	return createdUser, nil
}

// AuthenticateUser はユーザーを認証し、成功したらユーザーを返します。
// ユーザーの有無を区別させないため、失敗は常に ErrInvalidCredentials です。
func (s *UserService) AuthenticateUser(form models.UserLoginForm) (*models.User, error) {
	foundUser, err := s.userRepo.FindByUsername(form.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := repositories.VerifyPassword(foundUser.PasswordHash, form.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	foundUser.PasswordHash = "" // レスポンスにパスワードを含めない
	return foundUser, nil
}
