// Package modelsはアプリケーションのデータ構造体を定義します。
package models

import (
	"time"
)

// Task はToDoタスクのデータベース構造体を表します。
// JSONタグ: クライアントとの通信用
type Task struct {
	ID        int        `json:"id,omitempty"`         // 主キー
	UserID    *int       `json:"user_id,omitempty"`    // 所有ユーザーID (NULL = 匿名タスク)
	Title     string     `json:"title"`                // タスクのタイトル（必須、200文字以内）
	Completed bool       `json:"completed"`            // 完了状態
	DueDate   *time.Time `json:"due_date,omitempty"`   // 期限日 (任意)
	CreatedAt time.Time  `json:"created_at"`           // 作成日時
	UpdatedAt time.Time  `json:"updated_at,omitempty"` // 更新日時 (すべての変更で更新)
}

// TaskCreateForm はタスク作成フォームの入力です。文字数上限と日付形式は
// bindingタグで検証され、トリム後の空チェックはサービス層で行います。
type TaskCreateForm struct {
	Title   string `form:"title" binding:"required,max=200"`
	DueDate string `form:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

// DueDateString は期限日を YYYY-MM-DD 形式で返します。未設定の場合は空文字列。
func (t *Task) DueDateString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format("2006-01-02")
}

// IsOverdue は期限日が基準日より前かどうかを返します。
func (t *Task) IsOverdue(today time.Time) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	return t.DueDate.Before(today.Truncate(24 * time.Hour))
}
