package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
	"github.com/99minutos/todo-render/internal/pkg/metrics"
)

// SessionService implements login, session resolution and logout.
type SessionService struct {
	gateway ports.Gateway
	repo    ports.SessionRepository
	tokens  ports.TokenStoreFactory
	log     zerolog.Logger
	newID   func() string
	now     func() time.Time
}

func NewSessionService(
	gateway ports.Gateway,
	repo ports.SessionRepository,
	tokens ports.TokenStoreFactory,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		gateway: gateway,
		repo:    repo,
		tokens:  tokens,
		log:     log,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Login authenticates with email and password and opens a new session.
func (s *SessionService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	creds, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return s.start(ctx, creds, "password")
}

// LoginWithGoogle opens a session from a Google identity token.
func (s *SessionService) LoginWithGoogle(ctx context.Context, idToken string) (*ports.Session, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	creds, err := s.gateway.LoginWithGoogle(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("google login: %w", err)
	}
	return s.start(ctx, creds, "google")
}

func (s *SessionService) start(ctx context.Context, creds domain.Credentials, method string) (*ports.Session, error) {
	id := s.newID()
	now := s.now().UTC()

	if err := s.repo.Save(ctx, id, &domain.SessionState{
		Credentials: creds,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	role := DecodeRole(creds.AccessToken)
	metrics.SessionEventsTotal.WithLabelValues("login").Inc()
	s.log.Info().Str("session_id", id).Str("role", string(role)).Str("method", method).Msg("session started")

	return &ports.Session{ID: id, Role: role, Tokens: s.tokens(id)}, nil
}

// Resolve loads the session bound to id. Unknown ids and sessions without an
// access token yield domain.ErrUnauthenticated.
func (s *SessionService) Resolve(ctx context.Context, id string) (*ports.Session, error) {
	if id == "" {
		return nil, domain.ErrUnauthenticated
	}

	state, err := s.repo.Load(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if state.Credentials.AccessToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	return &ports.Session{
		ID:     id,
		Role:   DecodeRole(state.Credentials.AccessToken),
		Tokens: s.tokens(id),
	}, nil
}

// Logout destroys the session. Logging out an unknown session is not an error.
func (s *SessionService) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	metrics.SessionEventsTotal.WithLabelValues("logout").Inc()
	s.log.Info().Str("session_id", id).Msg("session ended")
	return nil
}

// PushAlert stores a one-shot message for the next render of the session.
func (s *SessionService) PushAlert(ctx context.Context, id, message string) error {
	state, err := s.repo.Load(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("push alert: %w", err)
	}

	state.Alert = message
	state.UpdatedAt = s.now().UTC()
	return s.repo.Save(ctx, id, state)
}

// PopAlert returns and clears the pending alert, if any.
func (s *SessionService) PopAlert(ctx context.Context, id string) (string, error) {
	state, err := s.repo.Load(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("pop alert: %w", err)
	}
	if state.Alert == "" {
		return "", nil
	}

	msg := state.Alert
	state.Alert = ""
	state.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, id, state); err != nil {
		return "", fmt.Errorf("pop alert: %w", err)
	}
	return msg, nil
}
