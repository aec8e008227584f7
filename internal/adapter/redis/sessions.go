package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/mixit-delights/storefront/internal/config"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

// ErrSessionNotFound covers both unknown IDs and sessions expired by TTL.
var ErrSessionNotFound = errors.New("builder session not found")

// SessionStore keeps builder sessions in Redis. Each session is a JSON
// value under its own key plus a per-user pointer key, both sharing the
// same TTL so an abandoned build evaporates on its own.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(ctx context.Context, cfg config.RedisConfig) (*SessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &SessionStore{client: client, ttl: cfg.SessionTTL}, nil
}

func (s *SessionStore) Save(ctx context.Context, session *interfaces.BuilderSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, s.ttl)
	pipe.Set(ctx, userKey(session.UserID), session.ID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*interfaces.BuilderSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session interfaces.BuilderSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) FindByUser(ctx context.Context, userID string) (*interfaces.BuilderSession, error) {
	id, err := s.client.Get(ctx, userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up user session: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.Del(ctx, userKey(session.UserID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) Close() error {
	return s.client.Close()
}

func sessionKey(id string) string {
	return "storefront:session:" + id
}

func userKey(userID string) string {
	return "storefront:session:user:" + userID
}
