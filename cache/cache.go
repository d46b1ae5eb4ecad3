// Package cache implements the content-hash-keyed async resource cache
// shared by every loader: a deduplicating map from key to a LoadFuture,
// plus load-cycle bookkeeping so the project loader can tell which files
// were actually touched during a cycle.
package cache

import (
	"context"
	"log"
	"sync"
)

// LoadFuture is a shared handle around one in-flight or completed load. Its
// first Get blocks until the loader finishes; subsequent Gets return the
// same cached (value, error) pair without re-running anything. Equality of
// two LoadFutures is identity of the underlying handle, by construction:
// Cache.Load always returns the same *LoadFuture[V] for a given key until
// Remove or Clear drops that entry.
type LoadFuture[V any] struct {
	done  chan struct{}
	once  sync.Once
	value V
	err   error
}

func newLoadFuture[V any]() *LoadFuture[V] {
	return &LoadFuture[V]{done: make(chan struct{})}
}

func (f *LoadFuture[V]) resolve(v V, err error) {
	f.once.Do(func() {
		f.value, f.err = v, err
		close(f.done)
	})
}

// Get blocks until the load completes and returns its result. Calling Get
// again (from any goroutine) returns the same result immediately.
func (f *LoadFuture[V]) Get(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Loader produces the value for a LoadFuture the first time it is requested.
type Loader[V any] func(ctx context.Context) (V, error)

// Cache deduplicates concurrent loads of the same key within a load cycle
// and tracks which keys were accessed during the current cycle.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*LoadFuture[V]
	accessed map[K]*LoadFuture[V]
}

// New returns an empty Cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*LoadFuture[V]),
		accessed: make(map[K]*LoadFuture[V]),
	}
}

// Load atomically inserts a shared future for key if absent, kicks off
// loader on it the first time, records it into the accessed-this-cycle set,
// and returns the (possibly already resolving) future.
func (c *Cache[K, V]) Load(ctx context.Context, key K, loader Loader[V]) *LoadFuture[V] {
	c.mu.Lock()
	f, ok := c.entries[key]
	isNew := !ok
	if isNew {
		f = newLoadFuture[V]()
		c.entries[key] = f
	}
	c.accessed[key] = f
	c.mu.Unlock()

	if isNew {
		go func() {
			v, err := loader(ctx)
			f.resolve(v, err)
		}()
	}
	return f
}

// Get loads key (if necessary) and awaits the result.
func (c *Cache[K, V]) Get(ctx context.Context, key K, loader Loader[V]) (V, error) {
	return c.Load(ctx, key, loader).Get(ctx)
}

// StartLoadCycle clears the accessed-this-cycle set, called once at the
// start of each project load cycle.
func (c *Cache[K, V]) StartLoadCycle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessed = make(map[K]*LoadFuture[V])
}

// DisplayLoadErrors logs the root cause of every future in the
// accessed-this-cycle set that resolved with an error. Futures still
// in-flight are skipped rather than blocked on, matching the non-blocking
// "resolve if ready" contract.
func (c *Cache[K, V]) DisplayLoadErrors() {
	c.mu.Lock()
	futures := make([]*LoadFuture[V], 0, len(c.accessed))
	for _, f := range c.accessed {
		futures = append(futures, f)
	}
	c.mu.Unlock()

	for _, f := range futures {
		select {
		case <-f.done:
			if f.err != nil {
				log.Printf("load failed: %v", f.err)
			}
		default:
		}
	}
}

// AccessedKeys returns every key requested during the current load cycle.
func (c *Cache[K, V]) AccessedKeys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]K, 0, len(c.accessed))
	for k := range c.accessed {
		keys = append(keys, k)
	}
	return keys
}

// Remove drops a single entry from the cache.
func (c *Cache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry from the cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*LoadFuture[V])
}
