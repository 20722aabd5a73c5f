package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter はプロセス内スライディングウィンドウのLimiter実装です。
// Redisが設定されていない単一プロセス構成で使います。
type MemoryLimiter struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	lastSweep time.Time

	// now はテストで差し替え可能な時刻取得関数です。
	now func() time.Time
}

// NewMemoryLimiter は新しいMemoryLimiterを作成します。
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		hits: make(map[string][]time.Time),
		now:  time.Now,
	}
}

// Allow はキーに対するリクエストがウィンドウ内の上限未満かどうかを判定します。
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (*Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-window)
	l.sweep(now, windowStart, window)

	// ウィンドウ外のエントリを落とす
	kept := l.hits[key][:0]
	for _, ts := range l.hits[key] {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limit {
		l.hits[key] = kept
		return &Result{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   kept[0].Add(window),
			Limit:     limit,
		}, nil
	}

	kept = append(kept, now)
	l.hits[key] = kept
	return &Result{
		Allowed:   true,
		Remaining: limit - len(kept),
		ResetAt:   now.Add(window),
		Limit:     limit,
	}, nil
}

// sweep は最長でもウィンドウ1回分の間隔で全キーを走査し、ウィンドウ内に
// ヒットの残っていないクライアントのキーを削除します。呼び出し元がmuを保持します。
func (l *MemoryLimiter) sweep(now, windowStart time.Time, window time.Duration) {
	if now.Sub(l.lastSweep) < window {
		return
	}
	l.lastSweep = now

	for key, hits := range l.hits {
		kept := hits[:0]
		for _, ts := range hits {
			if ts.After(windowStart) {
				kept = append(kept, ts)
			}
		}
		if len(kept) == 0 {
			delete(l.hits, key)
			continue
		}
		l.hits[key] = kept
	}
}
