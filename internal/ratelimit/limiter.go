// Package ratelimitはミューテーションエンドポイントのレート制限を提供します。
// 連打されたtoggle/deleteリクエストをサーバー側でも抑制するための層です。
package ratelimit

import (
	"context"
	"time"
)

// Result はレート制限チェックの結果です。
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Limit     int
}

// Limiter はスライディングウィンドウ方式のレート制限を行います。
// 実装はインメモリ (単一プロセス) とRedis (複数プロセス) の2種類です。
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}
