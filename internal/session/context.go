// Package session holds the current authenticated identity for a running
// client. The context is an explicit object passed into every store and
// reconciler constructor rather than a package-level singleton, so tests can
// simulate multiple users side by side.
package session

import (
	"strings"
	"sync"
)

// Identity is the authenticated user as seen by this process.
type Identity struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// DisplayNameFromEmail derives the default display name from the local part
// of the email address.
func DisplayNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// Context is a thread-safe holder for the current identity. It is populated
// on successful authentication and cleared on sign-out.
type Context struct {
	mu    sync.RWMutex
	ident *Identity
}

func NewContext() *Context {
	return &Context{}
}

// Set installs ident as the current identity.
func (c *Context) Set(ident Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ident = &ident
}

// Clear removes the current identity.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ident = nil
}

// Current returns the current identity, if any.
func (c *Context) Current() (Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ident == nil {
		return Identity{}, false
	}
	return *c.ident, true
}
