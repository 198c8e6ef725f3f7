// Package cache stores panel source data between requests.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Cache is a JSON value store with expiry
type Cache interface {
	// Get decodes the value at key into dst and reports whether it was found
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Redis is a Cache backed by a Redis server
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to url and pings it. Callers fall back to Nop on error.
func NewRedis(ctx context.Context, url, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return &Redis{client: client, prefix: prefix}, nil
}

// Get implements Cache
func (r *Redis) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Set implements Cache
func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete implements Cache
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}

// Nop never stores anything
type Nop struct{}

func (Nop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (Nop) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (Nop) Delete(context.Context, ...string) error { return nil }

// Memory is an in-process Cache, used when Redis is not deployed and in tests
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// NewMemory creates an empty in-process cache
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get implements Cache
func (m *Memory) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok && !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Set implements Cache. A zero ttl keeps the entry forever.
func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

// Delete implements Cache
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
	return nil
}

// Connect returns a Redis cache, or Nop with a warning when Redis is unreachable
func Connect(ctx context.Context, url string, logger *slog.Logger) Cache {
	if url == "" {
		return Nop{}
	}
	r, err := NewRedis(ctx, url, "dashboard:")
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
		return Nop{}
	}
	logger.Info("redis connection established")
	return r
}
