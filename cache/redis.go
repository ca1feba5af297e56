// Package cache wraps the Redis client used for the available-lessons cache
// and the request rate limiter.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Service struct {
	Client *redis.Client
}

// New connects to redis with short timeouts so a cache outage degrades
// requests instead of hanging them.
func New(addr, password string) *Service {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Service{Client: client}
}

// Healthy verifies redis connectivity.
func (s *Service) Healthy(ctx context.Context) bool {
	if s == nil || s.Client == nil {
		return false
	}
	return s.Client.Ping(ctx).Err() == nil
}

// Set stores a JSON-encoded value with a TTL.
func (s *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, key, data, ttl).Err()
}

// Get loads a JSON-encoded value into dest. It returns false when the key is
// missing or unreadable.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) bool {
	data, err := s.Client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (s *Service) Delete(ctx context.Context, keys ...string) error {
	return s.Client.Del(ctx, keys...).Err()
}

// DeletePattern removes every key matching the glob pattern.
func (s *Service) DeletePattern(ctx context.Context, pattern string) error {
	keys, err := s.Client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.Client.Del(ctx, keys...).Err()
}
