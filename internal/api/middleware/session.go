package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
)

const sessionKey = "session"

// SessionCookie reads and writes the cookie carrying the session id.
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Read returns the session id or "" when the cookie is absent.
func (sc *SessionCookie) Read(c echo.Context) string {
	ck, err := c.Cookie(sc.Name)
	if err != nil {
		return ""
	}
	return ck.Value
}

// Write binds the browser to session id.
func (sc *SessionCookie) Write(c echo.Context, id string) {
	ck := sc.base()
	ck.Value = id
	if sc.TTL > 0 {
		ck.MaxAge = int(sc.TTL.Seconds())
	}
	c.SetCookie(ck)
}

// Expire tells the browser to drop the session cookie.
func (sc *SessionCookie) Expire(c echo.Context) {
	ck := sc.base()
	ck.MaxAge = -1
	c.SetCookie(ck)
}

func (sc *SessionCookie) base() *http.Cookie {
	return &http.Cookie{
		Name:     sc.Name,
		Path:     "/",
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Session resolves the session cookie and stores the session in the echo
// context. Requests without a valid session pass through without one; the
// handlers that need a session reject them.
func Session(cookie *SessionCookie, sessions ports.SessionService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := cookie.Read(c)
			if id == "" {
				return next(c)
			}

			sess, err := sessions.Resolve(c.Request().Context(), id)
			switch {
			case errors.Is(err, domain.ErrUnauthenticated):
				log.Debug().Str("session_id", id).Msg("stale session cookie dropped")
				cookie.Expire(c)
				return next(c)
			case err != nil:
				return err
			}

			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session resolved by Session, if any.
func SessionFrom(c echo.Context) (*ports.Session, bool) {
	sess, ok := c.Get(sessionKey).(*ports.Session)
	return sess, ok && sess != nil
}
