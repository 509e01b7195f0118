package handler

import (
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todo-render/internal/api/middleware"
	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
)

// Pages a form mutation may send the browser back to.
const (
	ServerSidePath = "/todos/server-side"
	ClientSidePath = "/todos/client-side"
	LoginPath      = "/login"
)

// ctxSession returns the session resolved by the Session middleware, or
// domain.ErrUnauthenticated when the request carries none.
func ctxSession(c echo.Context) (*ports.Session, error) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return sess, nil
}

// todoID parses the :id path parameter.
func todoID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// ReturnPath is the page a form post redirects to. Only the two todo pages
// are accepted so the redirect cannot leave the site.
func ReturnPath(c echo.Context) string {
	target := c.FormValue("return_to")
	if target == "" {
		if ref, err := url.Parse(c.Request().Referer()); err == nil {
			target = ref.Path
		}
	}
	switch target {
	case ServerSidePath, ClientSidePath:
		return target
	default:
		return ServerSidePath
	}
}
