package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/todo-render/internal/api/handler"
	"github.com/99minutos/todo-render/internal/api/middleware"
	"github.com/99minutos/todo-render/internal/api/render"
	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
)

const forbiddenAlert = "You are not allowed to do that. Only VIP users can change todos."

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - maps domain errors to status codes for JSON callers;
//   - turns them into redirects or an error page for browser navigation;
//   - ends the session when the upstream call failed for good;
//   - logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger, sessions ports.SessionService, cookie *middleware.SessionCookie) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrRequestFailed) {
			endSession(c, log, sessions, cookie)
		}

		code, msg := resolveError(err, log, c)
		if wantsJSON(c) {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}
		_ = respondHTML(c, log, sessions, code, msg)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrRequestFailed):
		return http.StatusUnauthorized, "session expired, please log in again"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, forbiddenAlert
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, "invalid todo id"
	case errors.Is(err, domain.ErrInvalidTitle), errors.Is(err, domain.ErrEmptyPatch):
		return http.StatusUnprocessableEntity, unwrapMessage(err)
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// respondHTML answers a browser navigation. Auth failures go to the login
// page; a rejected form post comes back to its page with an alert.
func respondHTML(c echo.Context, log zerolog.Logger, sessions ports.SessionService, code int, msg string) error {
	if code == http.StatusUnauthorized {
		return c.Redirect(http.StatusSeeOther, handler.LoginPath)
	}

	sess, ok := middleware.SessionFrom(c)
	if ok && c.Request().Method == http.MethodPost && code < http.StatusInternalServerError {
		if err := sessions.PushAlert(c.Request().Context(), sess.ID, msg); err != nil {
			log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to store session alert")
		}
		return c.Redirect(http.StatusSeeOther, handler.ReturnPath(c))
	}

	return c.Render(code, render.ErrorPage, render.Error{Status: code, Message: msg})
}

func endSession(c echo.Context, log zerolog.Logger, sessions ports.SessionService, cookie *middleware.SessionCookie) {
	if err := sessions.Logout(c.Request().Context(), cookie.Read(c)); err != nil {
		log.Warn().Err(err).Msg("failed to end session after upstream failure")
	}
	cookie.Expire(c)
}

// wantsJSON reports whether the caller is script rather than navigation.
func wantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.HasPrefix(req.URL.Path, "/api/") {
		return true
	}
	return strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) ||
		strings.HasPrefix(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// unwrapMessage returns the text of the innermost error.
func unwrapMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
