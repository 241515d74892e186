package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/YusufBro01/ymastar/internal/ports/cache"
)

type entry struct {
	value     string
	expiresAt time.Time // нулевое - без срока
}

// Cache in-memory реализация cache.Cache, используется когда Redis не настроен
type Cache struct {
	clock clockwork.Clock

	mu    sync.RWMutex
	items map[string]entry
}

// NewCache создаёт новый in-memory кэш
func NewCache(clock clockwork.Clock) *Cache {
	return &Cache{
		clock: clock,
		items: make(map[string]entry),
	}
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || c.expired(e) {
		return "", cache.ErrCacheMiss
	}
	return e.value, nil
}

func (c *Cache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.clock.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = e
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	return err == nil, nil
}

// Purge удаляет истёкшие записи, возвращает сколько удалено
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.items {
		if c.expired(e) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) Close() error {
	return nil
}

func (c *Cache) expired(e entry) bool {
	return !e.expiresAt.IsZero() && c.clock.Now().After(e.expiresAt)
}
