package passport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"wanderlens/internal/models"
)

// RedisStore persists the passport under a single Redis key so the same
// passport can be shared across devices.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a store over the given client and key.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Load reads the passport key. A missing key yields an empty list.
func (s *RedisStore) Load(ctx context.Context) ([]models.SavedEntry, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("passport: failed to read key %q: %w", s.key, err)
	}

	var entries []models.SavedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("passport: failed to decode key %q: %w", s.key, err)
	}
	return entries, nil
}

// Save replaces the key with the whole list.
func (s *RedisStore) Save(ctx context.Context, entries []models.SavedEntry) error {
	if entries == nil {
		entries = []models.SavedEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("passport: failed to encode entries: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("passport: failed to write key %q: %w", s.key, err)
	}
	return nil
}
