package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps overlay entries in a Redis hash per session, one field
// per pendency, with a TTL refreshed on every write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "pendencias:overlay:" + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID, pendencyID string) (Entry, bool, error) {
	raw, err := s.client.HGet(ctx, sessionKey(sessionID), pendencyID).Result()
	if err == redis.Nil {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("overlay get: %w", err)
	}

	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Entry{}, false, fmt.Errorf("overlay decode: %w", err)
	}
	return e, true, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID, pendencyID string, e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("overlay encode: %w", err)
	}

	key := sessionKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, pendencyID, raw)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("overlay set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID, pendencyID string) error {
	if err := s.client.HDel(ctx, sessionKey(sessionID), pendencyID).Err(); err != nil {
		return fmt.Errorf("overlay delete: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("overlay delete session: %w", err)
	}
	return nil
}
