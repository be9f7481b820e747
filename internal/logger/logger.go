// Package logger создаёт zap-логгеры для пакетов библиотеки.
// Библиотека никогда не завершает процесс движка: при ошибке создания
// логгера возвращается no-op логгер вместо вызова log.Fatal.
package logger

import (
	"go.uber.org/zap"
)

// NewLogger создает и возвращает настроенный zap.SugaredLogger для development окружения.
// Используется пакетами библиотеки, когда вызывающий движок не передал собственный логгер.
func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}

	return logger.Sugar()
}

// NewNop возвращает логгер, отбрасывающий все сообщения. Удобен в тестах.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
