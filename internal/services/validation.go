// Package services はアプリケーションのビジネスロジックを提供します。
package services

import "strings"

// ValidationError は入力検証の失敗を表します。フィールド毎のメッセージを保持し、
// 呼び出し側はインラインエラーとして再表示します。
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError は空のValidationErrorを作成します。
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// Add はフィールドにエラーメッセージを追加します。
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors はエラーが1件以上あるかどうかを返します。
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	var parts []string
	for field, msgs := range e.Fields {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
