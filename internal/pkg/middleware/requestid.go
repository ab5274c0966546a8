package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDKey é a chave de contexto para o ID de requisição.
// Tipo próprio para não colidir com chaves string de outros pacotes.
type requestIDKey int

const ctxRequestID requestIDKey = iota

// RequestID atribui um UUID a cada requisição (ou propaga o X-Request-ID
// recebido) e o devolve no header da resposta, para correlação nos logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), ctxRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID recupera o ID de requisição do contexto ("" se ausente).
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxRequestID).(string); ok {
		return id
	}
	return ""
}
