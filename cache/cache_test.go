package cache

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_LoadDeduplicatesConcurrentCallers(t *testing.T) {
	c := New[string, int]()
	var calls atomic.Int32

	loader := func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 42, nil
	}

	f1 := c.Load(context.Background(), "k", loader)
	f2 := c.Load(context.Background(), "k", loader)
	assert.Same(t, f1, f2)

	v, err := f1.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_StartLoadCycleClearsAccessedSet(t *testing.T) {
	c := New[string, int]()
	c.Load(context.Background(), "a", func(ctx context.Context) (int, error) { return 1, nil })
	c.Get(context.Background(), "a", nil)

	c.StartLoadCycle()
	c.mu.Lock()
	n := len(c.accessed)
	c.mu.Unlock()
	assert.Equal(t, 0, n)
}

func TestCache_RemoveAndClear(t *testing.T) {
	c := New[string, int]()
	c.Load(context.Background(), "a", func(ctx context.Context) (int, error) { return 1, nil })
	c.Remove("a")
	c.mu.Lock()
	_, ok := c.entries["a"]
	c.mu.Unlock()
	assert.False(t, ok)

	c.Load(context.Background(), "b", func(ctx context.Context) (int, error) { return 2, nil })
	c.Clear()
	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	assert.Equal(t, 0, n)
}
