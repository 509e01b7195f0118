// Package tokenstore provides ports.TokenStore implementations: a store
// scoped to one session of a ports.SessionRepository, a file store for the
// terminal client, and an in-memory session repository.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
)

// Scoped is the token store of a single session id.
type Scoped struct {
	repo ports.SessionRepository
	id   string
	now  func() time.Time
}

// NewScoped binds repo to the session id.
func NewScoped(repo ports.SessionRepository, id string) *Scoped {
	return &Scoped{repo: repo, id: id, now: time.Now}
}

// Get returns the stored credentials or domain.ErrNoToken.
func (s *Scoped) Get(ctx context.Context) (domain.Credentials, error) {
	state, err := s.repo.Load(ctx, s.id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.Credentials{}, domain.ErrNoToken
	}
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("load session: %w", err)
	}
	if state.Credentials.AccessToken == "" {
		return domain.Credentials{}, domain.ErrNoToken
	}
	return state.Credentials, nil
}

// Set replaces the credentials of the session. It never creates state: a
// session deleted by logout or a failed request stays gone and Set returns
// domain.ErrSessionNotFound.
func (s *Scoped) Set(ctx context.Context, creds domain.Credentials) error {
	state, err := s.repo.Load(ctx, s.id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	state.Credentials = creds
	state.UpdatedAt = s.now().UTC()
	return s.repo.Save(ctx, s.id, state)
}

// Clear deletes the whole session state.
func (s *Scoped) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, s.id)
}
