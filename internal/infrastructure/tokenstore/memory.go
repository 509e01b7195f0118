package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/99minutos/todo-render/internal/core/domain"
)

// MemoryRepository is a ports.SessionRepository kept in process memory.
// Entries idle for longer than ttl are treated as missing.
type MemoryRepository struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]memoryEntry
	now   func() time.Time
}

type memoryEntry struct {
	state     domain.SessionState
	expiresAt time.Time
}

// NewMemoryRepository returns an empty repository. ttl <= 0 disables expiry.
func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{
		ttl:   ttl,
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (r *MemoryRepository) Load(_ context.Context, id string) (*domain.SessionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !e.expiresAt.IsZero() && r.now().After(e.expiresAt) {
		delete(r.items, id)
		return nil, domain.ErrSessionNotFound
	}
	state := cloneState(e.state)
	return &state, nil
}

func (r *MemoryRepository) Save(_ context.Context, id string, state *domain.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := memoryEntry{state: cloneState(*state)}
	if r.ttl > 0 {
		e.expiresAt = r.now().Add(r.ttl)
	}
	r.items[id] = e
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

func (r *MemoryRepository) Ping(context.Context) error { return nil }

func cloneState(s domain.SessionState) domain.SessionState {
	if s.Credentials.Cookies != nil {
		cookies := make([]domain.Cookie, len(s.Credentials.Cookies))
		copy(cookies, s.Credentials.Cookies)
		s.Credentials.Cookies = cookies
	}
	return s
}
