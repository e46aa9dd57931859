package xtimer

import (
	"context"
	"log/slog"
)

// NewSlogLogger 将 *slog.Logger 适配为 [Logger] 接口。
// l 为 nil 时使用 slog.Default()。
//
// 用法：
//
//	s := xtimer.New(xtimer.WithLogger(xtimer.NewSlogLogger(slog.Default())))
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return slogLogger{l: l}
}

type slogLogger struct{ l *slog.Logger }

func (s slogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s slogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s slogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s slogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

var _ Logger = slogLogger{}
