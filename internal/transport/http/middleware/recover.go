package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/go-baby-cry/internal/metrics"
	apierrors "github.com/pribylovaa/go-baby-cry/internal/transport/http/errors"
	logctx "github.com/pribylovaa/go-baby-cry/pkg/log"
)

var errPanic = errors.New("panic")

// Recover превращает панику хендлера в 500/internal и считает её в m
// (nil - без учёта). Детали паники остаются в логе.
// http.ErrAbortHandler пробрасывается дальше: это штатный обрыв ответа.
func Recover(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := record(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				m.Panic()
				logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "panic",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", RequestIDFrom(r.Context())),
					slog.Any("reason", rec),
				)

				if rw.status == 0 {
					apierrors.WriteError(rw, r, errPanic)
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
