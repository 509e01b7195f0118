package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/todo-render/internal/api/render"
	"github.com/99minutos/todo-render/internal/core/ports"
	"github.com/99minutos/todo-render/internal/core/view"
	"github.com/99minutos/todo-render/internal/pkg/metrics"
)

// TodoPageHandler serves the server-side and client-side todo pages and the
// plain form mutations used by the server-side page.
type TodoPageHandler struct {
	todos    ports.TodoService
	sessions ports.SessionService
	log      zerolog.Logger
}

func NewTodoPageHandler(todos ports.TodoService, sessions ports.SessionService, log zerolog.Logger) *TodoPageHandler {
	return &TodoPageHandler{todos: todos, sessions: sessions, log: log}
}

// ServerSide fetches the list and renders it with a hydration payload.
func (h *TodoPageHandler) ServerSide(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.PageRenderDuration.WithLabelValues("ssr").Observe(time.Since(start).Seconds())
	}()

	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	todos, err := h.todos.List(c.Request().Context(), sess)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, render.ServerSidePage, render.Todos{
		List:     view.Build(todos, sess.Role),
		Alert:    h.popAlert(c, sess),
		ReturnTo: ServerSidePath,
	})
}

// ClientSide renders the loading shell. The browser fetches /api/todos and
// handles authentication errors itself.
func (h *TodoPageHandler) ClientSide(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.PageRenderDuration.WithLabelValues("csr").Observe(time.Since(start).Seconds())
	}()

	page := render.Todos{ReturnTo: ClientSidePath}
	if sess, err := ctxSession(c); err == nil {
		page.Alert = h.popAlert(c, sess)
	}
	return c.Render(http.StatusOK, render.ClientSidePage, page)
}

// Create handles the add form.
func (h *TodoPageHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if _, err := h.todos.Create(c.Request().Context(), sess, req.Title); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, ReturnPath(c))
}

// Toggle sets completed to the value posted by the form.
func (h *TodoPageHandler) Toggle(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}

	var req toggleTodoForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	if _, err := h.todos.Toggle(c.Request().Context(), sess, id, req.Completed); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, ReturnPath(c))
}

// Delete handles the delete button.
func (h *TodoPageHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}

	if err := h.todos.Delete(c.Request().Context(), sess, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, ReturnPath(c))
}

// popAlert never fails the page; a lost alert is only logged.
func (h *TodoPageHandler) popAlert(c echo.Context, sess *ports.Session) string {
	msg, err := h.sessions.PopAlert(c.Request().Context(), sess.ID)
	if err != nil {
		h.log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to read session alert")
		return ""
	}
	return msg
}

