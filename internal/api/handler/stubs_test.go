package handler

import (
	"context"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todo-render/internal/api/middleware"
	"github.com/99minutos/todo-render/internal/api/render"
	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
)

type stubSessionService struct {
	loginFn  func(ctx context.Context, email, password string) (*ports.Session, error)
	googleFn func(ctx context.Context, idToken string) (*ports.Session, error)
	logoutFn func(ctx context.Context, id string) error
	alert    string
}

func (s *stubSessionService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubSessionService) LoginWithGoogle(ctx context.Context, idToken string) (*ports.Session, error) {
	return s.googleFn(ctx, idToken)
}

func (s *stubSessionService) Resolve(context.Context, string) (*ports.Session, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubSessionService) Logout(ctx context.Context, id string) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, id)
}

func (s *stubSessionService) PushAlert(_ context.Context, _ string, msg string) error {
	s.alert = msg
	return nil
}

func (s *stubSessionService) PopAlert(context.Context, string) (string, error) {
	msg := s.alert
	s.alert = ""
	return msg, nil
}

type stubTodoService struct {
	todos []domain.Todo
	err   error
	calls []string
}

func (s *stubTodoService) List(context.Context, *ports.Session) ([]domain.Todo, error) {
	s.calls = append(s.calls, "list")
	return s.todos, s.err
}

func (s *stubTodoService) Create(_ context.Context, _ *ports.Session, title string) (*domain.Todo, error) {
	s.calls = append(s.calls, "create")
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Todo{ID: 42, Title: title}, nil
}

func (s *stubTodoService) Update(_ context.Context, _ *ports.Session, id int64, patch domain.TodoPatch) (*domain.Todo, error) {
	s.calls = append(s.calls, "update")
	if s.err != nil {
		return nil, s.err
	}
	updated := domain.Todo{ID: id, Title: "existing"}.Apply(patch)
	return &updated, nil
}

func (s *stubTodoService) Toggle(ctx context.Context, sess *ports.Session, id int64, completed bool) (*domain.Todo, error) {
	return s.Update(ctx, sess, id, domain.TodoPatch{Completed: &completed})
}

func (s *stubTodoService) Delete(context.Context, *ports.Session, int64) error {
	s.calls = append(s.calls, "delete")
	return s.err
}

var testCookie = &middleware.SessionCookie{Name: "todo_session"}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	r, err := render.New()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	e.Validator = NewValidator()
	return e
}

// withSession attaches sess the way the Session middleware does.
func withSession(c echo.Context, sess *ports.Session) {
	c.Set("session", sess)
}
