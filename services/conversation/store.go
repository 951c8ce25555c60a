package conversation

import (
	"context"
	"encoding/json"
	"time"

	"salonai/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "conv:sess:"

// SessionStore persists per-user conversation sessions between webhook
// deliveries. A nil session from Get means the user has no active flow.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*models.ConversationSession, error)
	Set(ctx context.Context, session *models.ConversationSession) error
	Clear(ctx context.Context, userID string) error
}

type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, userID string) (*models.ConversationSession, error) {
	data, err := s.client.Get(ctx, sessionPrefix+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess models.ConversationSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisSessionStore) Set(ctx context.Context, session *models.ConversationSession) error {
	session.UpdatedAt = time.Now()
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+session.UserID, b, s.ttl).Err()
}

func (s *RedisSessionStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, sessionPrefix+userID).Err()
}
