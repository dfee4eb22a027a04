package version

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes resolved versions keyed by working tree root. It is
// injected explicitly rather than held as package state so that callers and
// tests control its lifetime. Concurrent resolutions of the same root
// collapse into a single execution.
type Cache struct {
	mu    sync.Mutex
	infos map[string]*Info
	group singleflight.Group
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{infos: make(map[string]*Info)}
}

// Do returns the cached Info for key, or runs fn once to compute it.
// Errors are not cached; a failed resolution is retried on the next call.
func (c *Cache) Do(key string, fn func() (*Info, error)) (*Info, error) {
	c.mu.Lock()
	if info, ok := c.infos[key]; ok {
		c.mu.Unlock()
		return info, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		info, fErr := fn()
		if fErr != nil {
			return nil, fErr
		}
		c.mu.Lock()
		c.infos[key] = info
		c.mu.Unlock()
		return info, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Info), nil
}

// Invalidate drops the cached Info for key, forcing the next Do to resolve
// again. Used by the watcher when the repository changes.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.infos, key)
	c.mu.Unlock()
}
