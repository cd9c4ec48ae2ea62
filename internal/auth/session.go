package auth

import (
	"net/http"

	"github.com/gorilla/sessions"

	"wmx/internal/config"
	"wmx/internal/domain"
)

const (
	sessionUserIDKey = "uid"
	sessionRoleKey   = "role"
)

type SessionStore struct {
	store *sessions.CookieStore
	name  string
}

func NewSessionStore(cfg config.SessionConfig) *SessionStore {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionStore{store: store, name: cfg.Name}
}

// Load returns the identity stored in the session cookie. A missing, tampered
// or expired cookie yields ok=false.
func (s *SessionStore) Load(r *http.Request) (Identity, bool) {
	session, err := s.store.New(r, s.name)
	if err != nil || session.IsNew {
		return Identity{}, false
	}

	uid, ok := session.Values[sessionUserIDKey].(uint64)
	if !ok || uid == 0 {
		return Identity{}, false
	}
	role, ok := session.Values[sessionRoleKey].(string)
	if !ok {
		return Identity{}, false
	}

	return Identity{ID: uid, Role: domain.Role(role)}, true
}

func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request, id Identity) error {
	session, _ := s.store.New(r, s.name)
	session.Values[sessionUserIDKey] = id.ID
	session.Values[sessionRoleKey] = string(id.Role)
	return s.store.Save(r, w, session)
}

func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.New(r, s.name)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	return s.store.Save(r, w, session)
}
