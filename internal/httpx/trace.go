package httpx

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type traceKey struct{}

const TraceHeader = "X-Trace-Id"

// Trace attaches a trace id to every request and echoes it in the response.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(TraceHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(TraceHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), traceKey{}, id)))
	})
}

func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceKey{}).(string); ok {
		return id
	}
	return uuid.New().String()
}
