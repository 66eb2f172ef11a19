package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implementa Client sobre patrickmn/go-cache.
// Útil para desarrollo, tests y despliegues de una sola instancia.
type memoryClient struct {
	prefix string
	c      *gocache.Cache
	// mu serializa Take e Incr (read-modify-write sobre go-cache).
	mu sync.Mutex
}

// NewMemory crea un cliente de cache en memoria.
func NewMemory(prefix string) *memoryClient {
	return &memoryClient{
		prefix: prefix,
		c:      gocache.New(gocache.NoExpiration, time.Minute),
	}
}

func (m *memoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(prefixed(m.prefix, key))
	if !ok {
		return "", ErrNotFound
	}
	s, _ := v.(string)
	return s, nil
}

func (m *memoryClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(prefixed(m.prefix, key), value, ttl)
	return nil
}

func (m *memoryClient) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	// Add falla si la key existe y no expiró.
	if err := m.c.Add(prefixed(m.prefix, key), value, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memoryClient) Incr(_ context.Context, key string, ttl time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := prefixed(m.prefix, key)
	if err := m.c.Add(k, int64(1), ttl); err == nil {
		return 1, ttl, nil
	}
	n, err := m.c.IncrementInt64(k, 1)
	if err != nil {
		return 0, 0, fmt.Errorf("cache: incr %s: %w", key, err)
	}
	var remaining time.Duration
	if _, exp, ok := m.c.GetWithExpiration(k); ok && !exp.IsZero() {
		remaining = time.Until(exp)
	}
	return n, remaining, nil
}

func (m *memoryClient) Take(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := prefixed(m.prefix, key)
	v, ok := m.c.Get(k)
	if !ok {
		return "", ErrNotFound
	}
	m.c.Delete(k)
	s, _ := v.(string)
	return s, nil
}

func (m *memoryClient) Delete(_ context.Context, key string) error {
	m.c.Delete(prefixed(m.prefix, key))
	return nil
}

func (m *memoryClient) Ping(context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}
