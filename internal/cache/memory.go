package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache keeps pages in process using an expirable LRU.
type memoryCache struct {
	pages *lru.LRU[string, []byte]
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	var onEvict func(string, []byte)
	if cfg.OnEvict != nil {
		onEvict = func(key string, value []byte) {
			cfg.OnEvict(key, value)
		}
	}
	return &memoryCache{
		pages: lru.NewLRU[string, []byte](cfg.Size, onEvict, cfg.TTL),
	}, nil
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	return m.pages.Get(key)
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte) {
	m.pages.Add(key, value)
}

func (m *memoryCache) Delete(_ context.Context, key string) {
	m.pages.Remove(key)
}

func (m *memoryCache) Len() int {
	return m.pages.Len()
}

func (m *memoryCache) Close() error {
	return nil
}
