package models

import "time"

// ContactMessage はお問い合わせフォームから送信されたメッセージを表します。
type ContactMessage struct {
	ID        int       `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"` // 管理者が確認済みかどうか
	CreatedAt time.Time `json:"created_at"`
}

// ContactForm はお問い合わせページのフォーム入力です。
type ContactForm struct {
	Name    string `form:"name" binding:"required,max=200"`
	Email   string `form:"email" binding:"required,email"`
	Message string `form:"message" binding:"required"`
}
