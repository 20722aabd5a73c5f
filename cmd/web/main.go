package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go-todo-web/internal/config"
	"go-todo-web/internal/database"
	"go-todo-web/internal/logger"
	"go-todo-web/internal/ratelimit"
	"go-todo-web/internal/routes"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting todo web server...",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("db_host", cfg.DBHost),
	)

	db, err := database.InitDB(cfg.DSN(), log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatal("Failed to ensure schema", zap.Error(err))
	}

	// Redisが設定されていればプロセス間で共有されるレート制限、無ければインメモリ
	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, "ratelimit:")
		log.Info("Rate limiting backed by redis", zap.String("addr", cfg.RedisAddr))
	} else {
		limiter = ratelimit.NewMemoryLimiter()
	}

	router := routes.SetupRouter(cfg, db, limiter, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
