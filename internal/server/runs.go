package server

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// defaultRunCacheSize is how many processed workbooks stay downloadable.
const defaultRunCacheSize = 32

// runCache holds recent workbooks by run id, evicting the least recently
// used. lru.Cache is not safe for concurrent use on its own.
type runCache struct {
	mu    sync.Mutex
	cache *lru.Cache
}

func newRunCache(size int) *runCache {
	return &runCache{cache: lru.New(size)}
}

func (c *runCache) put(id string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(id, data)
}

func (c *runCache) get(id string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}
