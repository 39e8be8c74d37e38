package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 10 * time.Minute

// Memory is an in-process Cache. It is used when no Redis address is configured.
type Memory struct {
	items *gocache.Cache

	// incrMu makes Incr's read-modify-write atomic.
	incrMu sync.Mutex
}

// NewMemory returns an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{items: gocache.New(gocache.NoExpiration, memoryCleanupInterval)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (m *Memory) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		m.items.Delete(k)
	}
	return nil
}

// Incr stores counters as decimal text, the way Redis does, so Get reads
// them back the same on both backends.
func (m *Memory) Incr(ctx context.Context, key string) (int64, error) {
	m.incrMu.Lock()
	defer m.incrMu.Unlock()

	var n int64
	if v, ok := m.items.Get(key); ok {
		var err error
		if n, err = strconv.ParseInt(string(v.([]byte)), 10, 64); err != nil {
			return 0, err
		}
	}
	n++
	m.items.Set(key, []byte(strconv.FormatInt(n, 10)), gocache.NoExpiration)
	return n, nil
}
