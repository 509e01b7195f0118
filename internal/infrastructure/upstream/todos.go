package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/99minutos/todo-render/internal/core/domain"
)

const pathTodos = "/todos"

// TodoClient implements ports.TodoClient on top of a Requester.
type TodoClient struct {
	req *Requester
}

// NewTodoClient returns a TodoClient routed through req.
func NewTodoClient(req *Requester) *TodoClient {
	return &TodoClient{req: req}
}

type createTodoRequest struct {
	Title string `json:"title"`
}

// List fetches every todo visible to the session.
func (c *TodoClient) List(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := c.req.DoJSON(ctx, http.MethodGet, pathTodos, nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos, nil
}

// Create adds a todo; the API assigns its id.
func (c *TodoClient) Create(ctx context.Context, title string) (*domain.Todo, error) {
	body, err := json.Marshal(createTodoRequest{Title: title})
	if err != nil {
		return nil, fmt.Errorf("encode todo: %w", err)
	}

	var todo domain.Todo
	if err := c.req.DoJSON(ctx, http.MethodPost, pathTodos, body, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Update sends patch for the todo with id. Last write wins.
func (c *TodoClient) Update(ctx context.Context, id int64, patch domain.TodoPatch) (*domain.Todo, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}

	var todo domain.Todo
	if err := c.req.DoJSON(ctx, http.MethodPut, todoPath(id), body, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Delete removes the todo with id.
func (c *TodoClient) Delete(ctx context.Context, id int64) error {
	_, err := c.req.Do(ctx, http.MethodDelete, todoPath(id), nil)
	return err
}

func todoPath(id int64) string {
	return pathTodos + "/" + strconv.FormatInt(id, 10)
}
