package session

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Cookie names. Language and theme outlive the session itself.
const (
	SessionCookie  = "online-shop-session"
	LanguageCookie = "online-shop-lang"
	ThemeCookie    = "online-shop-light-theme"
)

const (
	localsIDKey    = "session.id"
	localsStateKey = "session.state"

	preferenceMaxAge = 365 * 24 * 60 * 60
)

type Options struct {
	TTL             time.Duration
	Secure          bool
	DefaultLanguage string
	Languages       []string
	// Negotiate picks a supported language from an Accept-Language header.
	Negotiate func(acceptLanguage string) string
}

// Manager binds a Store to Fiber requests through cookies.
type Manager struct {
	store Store
	opts  Options
}

func NewManager(store Store, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en"
	}
	return &Manager{store: store, opts: opts}
}

// Middleware loads the caller's state into the request locals.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var st State
		id := c.Cookies(SessionCookie)
		if id != "" {
			loaded, err := m.store.Load(c.UserContext(), id)
			switch {
			case err == nil:
				st = loaded
			case errors.Is(err, ErrNotFound):
			default:
				log.Warnf("session: load failed: %v", err)
			}
		}
		if id == "" {
			id = uuid.NewString()
			m.setCookie(c, SessionCookie, id, int(m.opts.TTL.Seconds()), true)
		}

		if lang := c.Cookies(LanguageCookie); m.supported(lang) {
			st.Language = lang
		}
		if !m.supported(st.Language) {
			st.Language = m.negotiate(c.Get(fiber.HeaderAcceptLanguage))
		}
		if v := c.Cookies(ThemeCookie); v != "" {
			if light, err := strconv.ParseBool(v); err == nil {
				st.LightTheme = light
			}
		}

		c.Locals(localsIDKey, id)
		c.Locals(localsStateKey, st)
		return c.Next()
	}
}

// Dispatch applies actions to the current state and saves the result once,
// so a batch of actions is observed atomically by later requests.
func (m *Manager) Dispatch(c *fiber.Ctx, actions ...Action) (State, error) {
	cur := From(c)
	next := cur.Apply(actions...)
	if err := m.store.Save(c.UserContext(), ID(c), next); err != nil {
		return cur, err
	}
	c.Locals(localsStateKey, next)

	if next.Language != cur.Language {
		m.setCookie(c, LanguageCookie, next.Language, preferenceMaxAge, false)
	}
	if next.LightTheme != cur.LightTheme {
		m.setCookie(c, ThemeCookie, strconv.FormatBool(next.LightTheme), preferenceMaxAge, false)
	}
	return next, nil
}

// Renew moves the current state to a fresh session id and drops the old one.
func (m *Manager) Renew(c *fiber.Ctx) error {
	old := ID(c)
	id := uuid.NewString()
	if err := m.store.Save(c.UserContext(), id, From(c)); err != nil {
		return err
	}
	if old != "" {
		if err := m.store.Delete(c.UserContext(), old); err != nil {
			log.Warnf("session: delete old session: %v", err)
		}
	}
	c.Locals(localsIDKey, id)
	m.setCookie(c, SessionCookie, id, int(m.opts.TTL.Seconds()), true)
	return nil
}

// From returns the state loaded by Middleware.
func From(c *fiber.Ctx) State {
	st, _ := c.Locals(localsStateKey).(State)
	return st
}

// ID returns the session id assigned by Middleware.
func ID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsIDKey).(string)
	return id
}

func (m *Manager) supported(lang string) bool {
	if lang == "" {
		return false
	}
	if len(m.opts.Languages) == 0 {
		return lang == m.opts.DefaultLanguage
	}
	for _, l := range m.opts.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

func (m *Manager) negotiate(accept string) string {
	if m.opts.Negotiate != nil && accept != "" {
		if lang := m.opts.Negotiate(accept); m.supported(lang) {
			return lang
		}
	}
	return m.opts.DefaultLanguage
}

func (m *Manager) setCookie(c *fiber.Ctx, name, value string, maxAge int, httpOnly bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.opts.Secure,
		HTTPOnly: httpOnly,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
