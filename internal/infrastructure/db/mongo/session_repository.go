package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/todo-render/internal/core/domain"
)

const sessionsCollection = "sessions"

// SessionRepository implements ports.SessionRepository using MongoDB.
// Expiry is enforced by a TTL index on expires_at and re-checked on Load,
// since the TTL monitor only runs about once a minute.
type SessionRepository struct {
	coll *mongo.Collection
	ttl  time.Duration
	now  func() time.Time
}

// NewSessionRepository creates a SessionRepository. ttl <= 0 disables expiry.
func NewSessionRepository(db *mongo.Database, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		coll: db.Collection(sessionsCollection),
		ttl:  ttl,
		now:  time.Now,
	}
}

type mongoSession struct {
	ID        string             `bson:"_id"`
	Creds     domain.Credentials `bson:"credentials"`
	Alert     string             `bson:"alert,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
	ExpiresAt *time.Time         `bson:"expires_at,omitempty"`
}

func (r *SessionRepository) Load(ctx context.Context, id string) (*domain.SessionState, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoSession
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	if doc.ExpiresAt != nil && r.now().After(*doc.ExpiresAt) {
		return nil, domain.ErrSessionNotFound
	}

	return &domain.SessionState{
		Credentials: doc.Creds,
		Alert:       doc.Alert,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

func (r *SessionRepository) Save(ctx context.Context, id string, state *domain.SessionState) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSession{
		ID:        id,
		Creds:     state.Credentials,
		Alert:     state.Alert,
		CreatedAt: state.CreatedAt.UTC(),
		UpdatedAt: state.UpdatedAt.UTC(),
	}
	if r.ttl > 0 {
		exp := r.now().Add(r.ttl).UTC()
		doc.ExpiresAt = &exp
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

// EnsureIndexes creates the TTL index on expires_at.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}
