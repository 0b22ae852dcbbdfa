package middleware

import (
	"context"
	"mime"
	"net/http"
	"time"
)

// TimeoutPolicy - дедлайны запросов. Upload действует для загрузок
// сырых тел (аватары, записи плача); <= 0 - как Default.
type TimeoutPolicy struct {
	Default time.Duration
	Upload  time.Duration
}

func (p TimeoutPolicy) pick(r *http.Request) time.Duration {
	if p.Upload > 0 && isUpload(r) {
		return p.Upload
	}
	return p.Default
}

// Timeout навешивает дедлайн по политике p, если у запроса его ещё нет.
// Нулевой дедлайн оставляет запрос как есть.
func Timeout(p TimeoutPolicy) Middleware {
	return func(next http.Handler) http.Handler {
		if p.Default <= 0 && p.Upload <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := p.pick(r)
			if _, ok := r.Context().Deadline(); ok || d <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isUpload: POST с телом не в JSON.
func isUpload(r *http.Request) bool {
	if r.Method != http.MethodPost || r.ContentLength == 0 {
		return false
	}

	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return true
	}
	return mt != "application/json"
}
