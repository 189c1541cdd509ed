package httpmw

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const ctxKeyDisplayName ctxKey = "display_name"

// Идентичности нет: имя самообъявленное, без проверки. Требуем только,
// чтобы оно было установлено перед любым действием в лобби.
func DisplayNameMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.Header.Get("X-Display-Name"))
		if name == "" {
			http.Error(w, `{"error":"missing X-Display-Name"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyDisplayName, name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func DisplayNameFromCtx(ctx context.Context) string {
	if v := ctx.Value(ctxKeyDisplayName); v != nil {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}
