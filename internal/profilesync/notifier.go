package profilesync

import (
	"context"
	"log/slog"
)

// Level - тип пользовательского уведомления.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notifier показывает пользователю одно сообщение на операцию.
type Notifier interface {
	Notify(level Level, message string)
}

// LogNotifier пишет уведомления в slog.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(level Level, message string) {
	l := n.Log
	if l == nil {
		l = slog.Default()
	}

	lvl := slog.LevelInfo
	if level == LevelError {
		lvl = slog.LevelWarn
	}

	l.Log(context.Background(), lvl, message, slog.String("kind", level.String()))
}
