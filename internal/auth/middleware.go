package auth

import (
	"net/http"

	"wmx/internal/domain"
	apperrors "wmx/internal/errors"
	"wmx/internal/httpx"
)

type Middleware struct {
	sessions  *SessionStore
	responder *httpx.Responder
}

func NewMiddleware(sessions *SessionStore, responder *httpx.Responder) *Middleware {
	return &Middleware{sessions: sessions, responder: responder}
}

// Authenticate attaches the session identity, if any. It never rejects.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := m.sessions.Load(r); ok {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects anonymous callers with 401 and callers below minimum with 403.
func (m *Middleware) RequireRole(minimum domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				m.responder.Error(w, r, apperrors.NewUnauthorizedError("authentication required"))
				return
			}
			if !Authorize(id.Role, minimum) {
				m.responder.Error(w, r, apperrors.NewForbiddenError("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
