package middleware

import (
	"errors"
	"time"

	"gemini-multitool/internal/config"
	"gemini-multitool/internal/domain"
	"gemini-multitool/internal/logger"
	"gemini-multitool/internal/session"
	"gemini-multitool/internal/util"
	"gemini-multitool/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	SessionKey      = "session"      // *session.Session in fiber.Ctx locals
	SessionBusyKey  = "session_busy" // bool in fiber.Ctx locals
	sessionEndedKey = "session_ended"
)

// SessionMiddleware binds each request to the caller's session through a cookie.
type SessionMiddleware struct {
	store      session.Store
	guard      *session.Guard
	validator  *validation.Validator
	cookieName string
	ttl        time.Duration
}

// NewSessionMiddleware creates a new session middleware instance
func NewSessionMiddleware(store session.Store, guard *session.Guard, cfg config.SessionConfig) *SessionMiddleware {
	return &SessionMiddleware{
		store:      store,
		guard:      guard,
		validator:  validation.NewValidator(),
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
	}
}

// Load attaches the caller's session for read-only views. A session is
// created when the cookie is missing, invalid or expired.
func (m *SessionMiddleware) Load() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, created, err := m.resolve(c, c.Cookies(m.cookieName))
		if err != nil {
			return err
		}
		if created {
			if err := m.store.Save(c.UserContext(), sess); err != nil {
				return domain.NewInternalError("Failed to save session", err)
			}
		} else if err := m.store.Touch(c.UserContext(), sess.ID); err != nil {
			// The view can still be served; the session just keeps its old expiry.
			logger.Get().Warn("Failed to extend session lifetime",
				zap.String("session_id", sess.ID),
				zap.Error(err))
		}

		m.setCookie(c, sess.ID)
		c.Locals(SessionKey, sess)
		c.Locals(SessionBusyKey, m.guard.Busy(sess.ID))
		return c.Next()
	}
}

// Exclusive runs a mutating action with the session held. A second action
// on the same session while one is in flight gets SESSION_BUSY. The session
// is saved after the handler returns, also when it failed, so partial
// outcomes such as an unanswered user turn are kept.
func (m *SessionMiddleware) Exclusive() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(m.cookieName)
		if len(m.validator.ValidateSessionID(id)) > 0 {
			id = util.NewULID()
		}

		release, ok := m.guard.TryAcquire(id)
		if !ok {
			return domain.NewSessionBusyError()
		}
		defer release()

		sess, created, err := m.resolve(c, id)
		if err != nil {
			return err
		}
		if created && sess.ID != id {
			// Hold the guard under the identifier the client will use from now on.
			release()
			if release, ok = m.guard.TryAcquire(sess.ID); !ok {
				return domain.NewSessionBusyError()
			}
			defer release()
		}

		m.setCookie(c, sess.ID)
		c.Locals(SessionKey, sess)
		c.Locals(SessionBusyKey, false)

		handlerErr := c.Next()

		if ended, _ := c.Locals(sessionEndedKey).(bool); ended {
			return handlerErr
		}
		if err := m.store.Save(c.UserContext(), sess); err != nil {
			logger.Get().Error("Failed to save session",
				zap.String("session_id", sess.ID),
				zap.Error(err))
			if handlerErr == nil {
				return domain.NewInternalError("Failed to save session", err)
			}
		}
		return handlerErr
	}
}

// resolve loads the session named by id, or creates one under a fresh
// identifier. Identifiers are never taken from the client.
func (m *SessionMiddleware) resolve(c *fiber.Ctx, id string) (*session.Session, bool, error) {
	if len(m.validator.ValidateSessionID(id)) == 0 {
		sess, err := m.store.Load(c.UserContext(), id)
		if err == nil {
			return sess, false, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return nil, false, domain.NewInternalError("Failed to load session", err)
		}
	}

	sess := session.New(util.NewULID())
	logger.Get().Debug("Session created", zap.String("session_id", sess.ID))
	return sess, true, nil
}

func (m *SessionMiddleware) setCookie(c *fiber.Ctx, id string) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// End deletes the current session from the store and expires the cookie.
func (m *SessionMiddleware) End(c *fiber.Ctx) error {
	sess := CurrentSession(c)
	if sess == nil {
		return domain.NewInternalError("No session bound to request", nil)
	}
	if err := m.store.Delete(c.UserContext(), sess.ID); err != nil {
		return domain.NewInternalError("Failed to end session", err)
	}
	c.Locals(sessionEndedKey, true)
	c.ClearCookie(m.cookieName)
	logger.Get().Info("Session ended", zap.String("session_id", sess.ID))
	return nil
}

// CurrentSession returns the session bound by Load or Exclusive.
func CurrentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(SessionKey).(*session.Session)
	return sess
}

// SessionBusy reports whether another action on the session was in flight.
func SessionBusy(c *fiber.Ctx) bool {
	busy, _ := c.Locals(SessionBusyKey).(bool)
	return busy
}
