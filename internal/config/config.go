// Package configは環境変数からアプリケーション設定を読み込みます。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	Env  string // "development" または "production"
	Port string

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	JWTSecret string

	AllowedOrigins []string

	// RedisAddr が空の場合、レート制限はインメモリで動作します。
	RedisAddr     string
	RedisPassword string

	MutationLimit  int           // 時間窓あたりのミューテーション許可回数 (クライアント毎)
	MutationWindow time.Duration

	TemplatesGlob string
	StaticDir     string
}

// Load は .env を読み込み (存在しない場合は無視)、環境変数からConfigを構築します。
func Load() *Config {
	// .env が無い環境 (本番やCI) ではエラーを無視して環境変数をそのまま使う
	_ = godotenv.Load()

	return &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBUser: getEnv("DB_USER", "root"),
		DBPass: getEnv("DB_PASS", ""),
		DBHost: getEnv("DB_HOST", "127.0.0.1"),
		DBPort: getEnv("DB_PORT", "3306"),
		DBName: getEnv("DB_NAME", "todo_app"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:8080")),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		MutationLimit:  getEnvInt("MUTATION_LIMIT", 30),
		MutationWindow: getEnvDuration("MUTATION_WINDOW", time.Minute),

		TemplatesGlob: getEnv("TEMPLATES_GLOB", "web/templates/*.html"),
		StaticDir:     getEnv("STATIC_DIR", "web/static"),
	}
}

// DSN はMySQL接続文字列 (DSN) を構築します。
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
