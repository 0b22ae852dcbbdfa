package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// HeaderRequestID - заголовок сквозного id запроса.
const HeaderRequestID = "X-Request-Id"

// maxRequestIDLen - длиннее клиентский id не принимается и заменяется своим.
const maxRequestIDLen = 128

type requestIDKey struct{}

// RequestID гарантирует id запроса: берёт клиентский X-Request-Id или
// генерирует свой (uuid без дефисов). Id попадает в заголовок ответа,
// в заголовок запроса (его читает errors.WriteError) и в контекст.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(HeaderRequestID))
			if id == "" || len(id) > maxRequestIDLen {
				id = strings.ReplaceAll(uuid.NewString(), "-", "")
			}
			r.Header.Set(HeaderRequestID, id)
			w.Header().Set(HeaderRequestID, id)

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// RequestIDFrom возвращает id запроса из контекста ("" - если его нет).
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
