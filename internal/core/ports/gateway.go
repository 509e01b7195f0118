package ports

import (
	"context"

	"github.com/99minutos/todo-render/internal/core/domain"
)

// TodoClient is the CRUD surface of the remote todo API.
type TodoClient interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, title string) (*domain.Todo, error)
	Update(ctx context.Context, id int64, patch domain.TodoPatch) (*domain.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// Gateway is the entry point to the remote todo/auth API.
type Gateway interface {
	Login(ctx context.Context, email, password string) (domain.Credentials, error)
	LoginWithGoogle(ctx context.Context, idToken string) (domain.Credentials, error)
	// Todos returns a client whose calls authenticate with, and refresh into,
	// the given store.
	Todos(tokens TokenStore) TodoClient
}
