// Package log - slog-логгер сервиса и его перенос через context.Context.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладёт логгер в контекст.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер из контекста (или возвращает slog.Default()).
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}

	return slog.Default()
}

// With дополняет логгер из контекста атрибутами args и кладёт результат
// обратно. Без args контекст и логгер возвращаются как есть.
func With(ctx context.Context, args ...any) (context.Context, *slog.Logger) {
	l := From(ctx)
	if len(args) == 0 {
		return ctx, l
	}

	l = l.With(args...)

	return Into(ctx, l), l
}
