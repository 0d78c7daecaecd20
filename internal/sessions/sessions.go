// Package sessions keeps the per-browser identity (artisan or user email) and
// one-shot flash messages in server-side, expiring sessions.
package sessions

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	applog "artisanhub/internal/log"
)

const (
	CookieName = "sid"

	keyArtisan = "artisan"
	keyUser    = "user"
	keyFlash   = "flash"

	localsKey = "session"
	flashSep  = "\x1f"
)

type Manager struct {
	store *session.Store
}

// NewManager uses storage for session data; nil selects in-process memory.
func NewManager(ttl time.Duration, secure bool, storage fiber.Storage) *Manager {
	return &Manager{store: session.New(session.Config{
		Expiration:     ttl,
		Storage:        storage,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
	})}
}

// Session wraps the fiber session and records whether it needs saving.
type Session struct {
	s       *session.Session
	dirty   bool
	cleared bool
}

func (s *Session) Artisan() string { return s.str(keyArtisan) }
func (s *Session) User() string    { return s.str(keyUser) }

func (s *Session) str(k string) string {
	v, _ := s.s.Get(k).(string)
	return v
}

// LoginArtisan moves the session to the artisan state under a fresh id.
func (s *Session) LoginArtisan(email string) error { return s.login(keyArtisan, email) }

// LoginUser moves the session to the user state under a fresh id.
func (s *Session) LoginUser(email string) error { return s.login(keyUser, email) }

func (s *Session) login(key, email string) error {
	if err := s.s.Regenerate(); err != nil {
		return err
	}
	s.s.Delete(keyArtisan)
	s.s.Delete(keyUser)
	s.s.Set(key, email)
	s.dirty = true
	return nil
}

func (s *Session) AddFlash(msg string) {
	cur := s.str(keyFlash)
	if cur != "" {
		cur += flashSep
	}
	s.s.Set(keyFlash, cur+msg)
	s.dirty = true
}

// PopFlashes returns and removes pending flash messages.
func (s *Session) PopFlashes() []string {
	cur := s.str(keyFlash)
	if cur == "" {
		return nil
	}
	s.s.Delete(keyFlash)
	s.dirty = true
	return strings.Split(cur, flashSep)
}

// Clear destroys all session state.
func (s *Session) Clear() error {
	s.cleared = true
	return s.s.Destroy()
}

// Middleware loads the session into Locals, exposes identity to templates,
// and saves the session after the handler if it changed. Flashes stay in the
// session until a page pops them.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := c.Path()
		if strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/uploads/") {
			return c.Next()
		}
		raw, err := m.store.Get(c)
		if err != nil {
			return err
		}
		sess := &Session{s: raw}
		c.Locals(localsKey, sess)
		if a := sess.Artisan(); a != "" {
			c.Locals("Artisan", a)
		}
		if u := sess.User(); u != "" {
			c.Locals("User", u)
		}

		err = c.Next()

		if sess.dirty && !sess.cleared {
			if serr := raw.Save(); serr != nil {
				applog.Error(c, "session.save.fail", serr, nil)
			}
		}
		return err
	}
}

// From returns the session loaded by Middleware, or nil.
func From(c *fiber.Ctx) *Session {
	s, _ := c.Locals(localsKey).(*Session)
	return s
}
