package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
)

// TodoService runs todo use cases for a session. Mutations are gated on the
// session role before anything is sent upstream.
type TodoService struct {
	gateway ports.Gateway
	log     zerolog.Logger
}

func NewTodoService(gateway ports.Gateway, log zerolog.Logger) *TodoService {
	return &TodoService{gateway: gateway, log: log}
}

func (s *TodoService) List(ctx context.Context, sess *ports.Session) ([]domain.Todo, error) {
	return s.gateway.Todos(sess.Tokens).List(ctx)
}

func (s *TodoService) Create(ctx context.Context, sess *ports.Session, title string) (*domain.Todo, error) {
	if err := s.authorize(sess, "create"); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	todo, err := s.gateway.Todos(sess.Tokens).Create(ctx, title)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("session_id", sess.ID).Int64("todo_id", todo.ID).Msg("todo created")
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, sess *ports.Session, id int64, patch domain.TodoPatch) (*domain.Todo, error) {
	if err := s.authorize(sess, "update"); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}
	if patch.IsEmpty() {
		return nil, domain.ErrEmptyPatch
	}
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			return nil, domain.ErrInvalidTitle
		}
		patch.Title = &trimmed
	}

	return s.gateway.Todos(sess.Tokens).Update(ctx, id, patch)
}

// Toggle sets the completed flag of a todo and leaves the title alone.
func (s *TodoService) Toggle(ctx context.Context, sess *ports.Session, id int64, completed bool) (*domain.Todo, error) {
	return s.Update(ctx, sess, id, domain.TodoPatch{Completed: &completed})
}

func (s *TodoService) Delete(ctx context.Context, sess *ports.Session, id int64) error {
	if err := s.authorize(sess, "delete"); err != nil {
		return err
	}
	if id <= 0 {
		return domain.ErrInvalidID
	}

	if err := s.gateway.Todos(sess.Tokens).Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("session_id", sess.ID).Int64("todo_id", id).Msg("todo deleted")
	return nil
}

func (s *TodoService) authorize(sess *ports.Session, action string) error {
	if sess.Role.CanMutate() {
		return nil
	}
	s.log.Debug().Str("session_id", sess.ID).Str("role", string(sess.Role)).Str("action", action).Msg("mutation blocked for role")
	return fmt.Errorf("%w: %s requires role %s", domain.ErrForbidden, action, domain.RoleVIP)
}
