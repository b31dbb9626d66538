package logger

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var log atomic.Pointer[slog.Logger]

func init() {
	log.Store(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}

// SetLevel rebuilds the underlying handler with the given level.
func SetLevel(level slog.Level) {
	log.Store(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
}

func Info(msg string, args ...any) {
	log.Load().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	log.Load().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	log.Load().Error(msg, args...)
}

func Debug(msg string, args ...any) {
	log.Load().Debug(msg, args...)
}
