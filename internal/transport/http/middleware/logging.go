package middleware

import (
	"log/slog"
	"net/http"
	"time"

	logctx "github.com/pribylovaa/go-baby-cry/pkg/log"
)

// Logging кладёт в контекст логгер с request_id и по завершении пишет
// одну запись "http". Ответы 5xx логируются с уровнем Warn.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logctx.Into(r.Context(), l)
			if rid := r.Header.Get(HeaderRequestID); rid != "" {
				ctx, _ = logctx.With(ctx, slog.String("request_id", rid))
			}
			r = r.WithContext(ctx)

			rw := record(w)
			start := time.Now()
			next.ServeHTTP(rw, r)

			level := slog.LevelInfo
			if rw.code() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}

			logctx.From(ctx).LogAttrs(ctx, level, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.code()),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", rw.written),
			)
		})
	}
}
