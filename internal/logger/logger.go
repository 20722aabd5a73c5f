// Package loggerはzapロガーの構築を行います。
package logger

import (
	"go.uber.org/zap"
)

// New は環境に応じたzapロガーを作成します。
// 開発環境では人間が読みやすい出力、本番環境ではJSON出力になります。
func New(env string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return l
}
