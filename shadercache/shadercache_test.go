package shadercache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aedm/bitang/filecache"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompiler struct{}

func (fakeCompiler) Compile(stage gpu.Stage, path string, macros []shader.Macro, resolve shader.IncludeResolver) (*shader.Artifact, []shader.IncludeRef, error) {
	_, hash, err := resolve(path)
	if err != nil {
		return nil, nil, err
	}
	return &shader.Artifact{Stage: stage}, []shader.IncludeRef{{Path: path, Hash: hash}}, nil
}

func TestShaderCache_DedupsIdenticalContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "main.glsl")
	require.NoError(t, os.WriteFile(p, []byte("void main(){}"), 0o644))

	files := filecache.New()
	sc := New(fakeCompiler{}, files)

	a1, err := sc.Compile(gpu.StageFragment, p, nil)
	require.NoError(t, err)
	sc.StartLoadCycle() // simulate a new load cycle; persistent tree survives
	a2, err := sc.Compile(gpu.StageFragment, p, nil)
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.Equal(t, 1, sc.CompileCount())
}

func TestShaderCache_InvalidatesOnContentChange(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "main.glsl")
	require.NoError(t, os.WriteFile(p, []byte("A"), 0o644))

	files := filecache.New()
	sc := New(fakeCompiler{}, files)

	_, err := sc.Compile(gpu.StageFragment, p, nil)
	require.NoError(t, err)

	// Change content; invalidate the file cache entry and start a new cycle.
	require.NoError(t, os.WriteFile(p, []byte("B"), 0o644))
	files.Invalidate(p)
	sc.StartLoadCycle()

	_, err = sc.Compile(gpu.StageFragment, p, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, sc.CompileCount())
}
