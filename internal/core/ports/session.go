package ports

import (
	"context"

	"github.com/99minutos/todo-render/internal/core/domain"
)

// Session binds a browsing context to its role and token store.
type Session struct {
	ID     string
	Role   domain.Role
	Tokens TokenStore
}

// SessionService manages session lifecycle from login to logout.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*Session, error)
	Resolve(ctx context.Context, id string) (*Session, error)
	Logout(ctx context.Context, id string) error
	PushAlert(ctx context.Context, id, message string) error
	PopAlert(ctx context.Context, id string) (string, error)
}

// TodoService exposes role-gated todo use cases.
type TodoService interface {
	List(ctx context.Context, s *Session) ([]domain.Todo, error)
	Create(ctx context.Context, s *Session, title string) (*domain.Todo, error)
	Update(ctx context.Context, s *Session, id int64, patch domain.TodoPatch) (*domain.Todo, error)
	Toggle(ctx context.Context, s *Session, id int64, completed bool) (*domain.Todo, error)
	Delete(ctx context.Context, s *Session, id int64) error
}
