// Package metricsはPrometheusメトリクスを定義します。
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPリクエスト遅延 (秒)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// タスクミューテーション計数
	TaskMutationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_mutation_count",
			Help: "Total number of task mutations",
		},
		[]string{"operation", "status"}, // operation: create, toggle, delete
	)
)

// IncrementTaskMutation はタスクミューテーション計数を増やします。
func IncrementTaskMutation(operation, status string) {
	TaskMutationCount.WithLabelValues(operation, status).Inc()
}

// GinMiddleware はリクエスト遅延を記録するginミドルウェアを返します。
// パスラベルにはカーディナリティを抑えるためルートパターンを使います。
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
