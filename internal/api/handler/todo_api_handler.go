package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
	"github.com/99minutos/todo-render/internal/core/view"
)

// TodoAPIHandler is the JSON surface the client-side page renders from.
type TodoAPIHandler struct {
	todos ports.TodoService
}

func NewTodoAPIHandler(todos ports.TodoService) *TodoAPIHandler {
	return &TodoAPIHandler{todos: todos}
}

// List returns the role-gated view of the todo list.
//
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Success      200  {object}  view.TodoList
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/todos [get]
func (h *TodoAPIHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	todos, err := h.todos.List(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.Build(todos, sess.Role))
}

// Create adds a todo. VIP only.
//
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      createTodoRequest  true  "Todo title"
// @Success      201   {object}  domain.Todo
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/todos [post]
func (h *TodoAPIHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	todo, err := h.todos.Create(c.Request().Context(), sess, req.Title)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, todo)
}

// Update applies a partial update. VIP only.
//
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Todo ID"
// @Param        body  body      updateTodoRequest  true  "Fields to change"
// @Success      200   {object}  domain.Todo
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/todos/{id} [put]
func (h *TodoAPIHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}

	var req updateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	todo, err := h.todos.Update(c.Request().Context(), sess, id, domain.TodoPatch{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todo)
}

// Delete removes a todo. VIP only.
//
// @Summary      Delete a todo
// @Tags         todos
// @Param        id   path  int  true  "Todo ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/todos/{id} [delete]
func (h *TodoAPIHandler) Delete(c echo.Context) error {
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
	return c.NoContent(http.StatusNoContent)
}
