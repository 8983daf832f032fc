// Package flash carries one-shot messages across a POST/redirect/GET cycle
// in a signed cookie.
package flash

import (
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// DefaultSessionName is the cookie name when none is configured.
const DefaultSessionName = "modulecredits-session"

// Manager reads and writes flash messages.
type Manager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewManager builds a cookie-backed Manager. secure marks cookies Secure and
// switches SameSite to None.
func NewManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*Manager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	return &Manager{store: store, name: name, log: logger}, nil
}

// session returns the named session. A cookie that fails to decode (e.g.
// after a key rotation) yields a fresh session.
func (m *Manager) session(r *http.Request) *sessions.Session {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			m.log.Warn("flash cookie invalid, using fresh session", zap.Error(err))
		} else {
			m.log.Error("flash session error, using fresh session", zap.Error(err))
		}
	}
	return sess
}

// Add queues msg for the next request.
func (m *Manager) Add(w http.ResponseWriter, r *http.Request, msg string) error {
	sess := m.session(r)
	sess.AddFlash(msg)
	return sess.Save(r, w)
}

// Pop returns and clears the queued messages. It must run before the
// response body is written.
func (m *Manager) Pop(w http.ResponseWriter, r *http.Request) []string {
	if m == nil {
		return nil
	}
	sess := m.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		m.log.Warn("failed to clear flash messages", zap.Error(err))
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
