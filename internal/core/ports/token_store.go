package ports

import (
	"context"

	"github.com/99minutos/todo-render/internal/core/domain"
)

// TokenStore holds the credentials of a single browsing context.
// Get returns domain.ErrNoToken when nothing is stored.
type TokenStore interface {
	Get(ctx context.Context) (domain.Credentials, error)
	Set(ctx context.Context, creds domain.Credentials) error
	Clear(ctx context.Context) error
}

// SessionRepository persists session state keyed by session id.
// Load returns domain.ErrSessionNotFound for unknown or expired ids.
type SessionRepository interface {
	Load(ctx context.Context, id string) (*domain.SessionState, error)
	Save(ctx context.Context, id string, state *domain.SessionState) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// TokenStoreFactory returns the token store of a session id.
type TokenStoreFactory func(sessionID string) TokenStore
