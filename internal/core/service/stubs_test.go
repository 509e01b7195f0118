package service

import (
	"context"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubRepo struct {
	mu    sync.Mutex
	items map[string]domain.SessionState
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: make(map[string]domain.SessionState)}
}

func (r *stubRepo) Load(_ context.Context, id string) (*domain.SessionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *stubRepo) Save(_ context.Context, id string, state *domain.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id] = *state
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *stubRepo) Ping(context.Context) error { return nil }

// stubTokens is a TokenStore that reads through stubRepo.
type stubTokens struct {
	repo *stubRepo
	id   string
}

func (s stubTokens) Get(ctx context.Context) (domain.Credentials, error) {
	st, err := s.repo.Load(ctx, s.id)
	if err != nil {
		return domain.Credentials{}, domain.ErrNoToken
	}
	return st.Credentials, nil
}

func (s stubTokens) Set(ctx context.Context, creds domain.Credentials) error {
	return s.repo.Save(ctx, s.id, &domain.SessionState{Credentials: creds})
}

func (s stubTokens) Clear(ctx context.Context) error { return s.repo.Delete(ctx, s.id) }

// stubGateway records every upstream call.
type stubGateway struct {
	loginFn  func(ctx context.Context, email, password string) (domain.Credentials, error)
	googleFn func(ctx context.Context, idToken string) (domain.Credentials, error)
	client   *stubTodoClient
}

func (g *stubGateway) Login(ctx context.Context, email, password string) (domain.Credentials, error) {
	return g.loginFn(ctx, email, password)
}

func (g *stubGateway) LoginWithGoogle(ctx context.Context, idToken string) (domain.Credentials, error) {
	return g.googleFn(ctx, idToken)
}

func (g *stubGateway) Todos(ports.TokenStore) ports.TodoClient {
	return g.client
}

type stubTodoClient struct {
	todos []domain.Todo
	calls []string
	err   error
}

func (c *stubTodoClient) List(context.Context) ([]domain.Todo, error) {
	c.calls = append(c.calls, "list")
	return c.todos, c.err
}

func (c *stubTodoClient) Create(_ context.Context, title string) (*domain.Todo, error) {
	c.calls = append(c.calls, "create")
	if c.err != nil {
		return nil, c.err
	}
	return &domain.Todo{ID: int64(len(c.todos) + 1), Title: title}, nil
}

func (c *stubTodoClient) Update(_ context.Context, id int64, patch domain.TodoPatch) (*domain.Todo, error) {
	c.calls = append(c.calls, "update")
	if c.err != nil {
		return nil, c.err
	}
	for _, t := range c.todos {
		if t.ID == id {
			updated := t.Apply(patch)
			return &updated, nil
		}
	}
	return nil, domain.ErrRequestFailed
}

func (c *stubTodoClient) Delete(context.Context, int64) error {
	c.calls = append(c.calls, "delete")
	return c.err
}

// tokenWithRole returns a signed JWT carrying the role claim.
func tokenWithRole(role string) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": role, "sub": "u1"}).
		SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return tok
}
