package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/maheshrc27/clipstudio/internal/publish"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("publish session not found")

const sessionKeyPrefix = "publish:session:"

// SessionRepository keeps publish session snapshots in redis. Every Save
// replaces the whole snapshot.
type SessionRepository interface {
	Save(ctx context.Context, s *publish.Session) error
	Get(ctx context.Context, id string) (*publish.Session, error)
	Delete(ctx context.Context, id string) error
}

type sessionRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewSessionRepository(client redis.UniversalClient, ttl time.Duration) SessionRepository {
	return &sessionRepository{client: client, ttl: ttl}
}

func (r *sessionRepository) Save(ctx context.Context, s *publish.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+s.ID, data, r.ttl).Err(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*publish.Session, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		slog.Info(err.Error())
		return nil, err
	}

	var s publish.Session
	if err := json.Unmarshal(data, &s); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
