package filecache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetHashesContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.glsl")
	require.NoError(t, os.WriteFile(p, []byte("hello"), 0o644))

	c := New()
	f, err := c.Get(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), f.Content)
	assert.NotZero(t, f.Hash)
}

func TestCache_MissingFileSetsFlag(t *testing.T) {
	c := New()
	_, err := c.Get(context.Background(), "/nonexistent/path.glsl")
	assert.Error(t, err)
	assert.True(t, c.HasMissingFiles())

	c.StartLoadCycle()
	assert.False(t, c.HasMissingFiles())
}

func TestChangeHandler_LoadCycleCleanup(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "g.glsl")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	h, err := NewChangeHandler()
	require.NoError(t, err)
	defer h.Close()

	h.UpdateWatchers([]string{f})
	assert.True(t, h.IsWatching(f))

	// A cycle that doesn't reference f anymore stops watching it.
	h.UpdateWatchers(nil)
	assert.False(t, h.IsWatching(f))

	// A cycle that references it again resumes watching it.
	h.UpdateWatchers([]string{f})
	assert.True(t, h.IsWatching(f))
	_ = time.Millisecond // watcher events are async; this test only checks registration state
}
