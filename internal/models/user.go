package models

import "time"

// User はユーザーのデータベース構造体を表します。
// フォームはサーバーレンダリングのためformタグでバインドします。
type User struct {
	ID           int       `json:"id,omitempty"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // JSONに出さない
	Role         string    `json:"role"` // user または admin
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRegisterForm は登録ページのフォーム入力です。bindingタグの制約は
// ShouldBindで検証されます。重複チェックはサービス層で行います。
type UserRegisterForm struct {
	Username        string `form:"username" binding:"required"`
	Email           string `form:"email" binding:"omitempty,email"` // 任意
	Password        string `form:"password" binding:"required,min=8"` // 生パスワード
	PasswordConfirm string `form:"password_confirm" binding:"required,eqfield=Password"`
}

// UserLoginForm はログインページのフォーム入力です。
type UserLoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"` // 生パスワード
}

// JWTClaims はセッションCookieに格納されるクレームです。
type JWTClaims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
