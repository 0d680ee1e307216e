package auth

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/readease/readease/internal/config"
	"github.com/readease/readease/internal/session"
)

// Session data keys
const (
	SessionKeyUserID      = "user_id"
	SessionKeyEmail       = "email"
	SessionKeyDisplayName = "display_name"
	SessionKeyAvatarURL   = "avatar_url"
)

// SessionManager wraps scs.SessionManager with identity-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager. The sqlDB
// parameter should be the underlying *sql.DB from GORM so sessions live in
// the same database file.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession binds an authenticated identity to the request's session.
func (sm *SessionManager) CreateSession(r *http.Request, ident session.Identity) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	sm.Put(r.Context(), SessionKeyUserID, ident.UserID)
	sm.Put(r.Context(), SessionKeyEmail, ident.Email)
	sm.Put(r.Context(), SessionKeyDisplayName, ident.DisplayName)
	sm.Put(r.Context(), SessionKeyAvatarURL, ident.AvatarURL)
	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// CurrentIdentity returns the identity bound to the request's session, if
// any.
func (sm *SessionManager) CurrentIdentity(r *http.Request) (session.Identity, bool) {
	userID := sm.GetString(r.Context(), SessionKeyUserID)
	if userID == "" {
		return session.Identity{}, false
	}
	return session.Identity{
		UserID:      userID,
		Email:       sm.GetString(r.Context(), SessionKeyEmail),
		DisplayName: sm.GetString(r.Context(), SessionKeyDisplayName),
		AvatarURL:   sm.GetString(r.Context(), SessionKeyAvatarURL),
	}, true
}
