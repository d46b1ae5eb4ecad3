// Package shadercache memoizes shader compilation across the include
// dependency graph, so that hot-reloading one header only invalidates the
// artifacts actually reachable through it.
package shadercache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aedm/bitang/filecache"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/shader"
)

// key identifies a compilation request: entry path, stage, and the macro
// set (order-independent).
type key struct {
	path   string
	stage  gpu.Stage
	macros string
}

func makeKey(stage gpu.Stage, path string, macros []shader.Macro) key {
	sorted := make([]shader.Macro, len(macros))
	copy(sorted, macros)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	var b strings.Builder
	for _, m := range sorted {
		fmt.Fprintf(&b, "%s=%s;", m.Name, m.Value)
	}
	return key{path: path, stage: stage, macros: b.String()}
}

// node is one level of the persistent include tree: it records which path
// to inspect next, and branches on that path's content hash to either a
// leaf artifact or a deeper node.
type node struct {
	nextPath string // "" once resolution has ended at this node's depth
	children map[uint64]*node
	leaf     *shader.Artifact
}

func newNode(nextPath string) *node {
	return &node{nextPath: nextPath, children: make(map[uint64]*node)}
}

// Cache is the two-level shader cache: a load-cycle cache that assumes file
// contents are stable for the duration of one cycle, in front of a
// persistent include tree that survives across cycles and is only
// invalidated along the specific include edges whose content changed.
type Cache struct {
	compiler shader.Compiler
	files    *filecache.Cache

	mu         sync.Mutex
	cycleCache map[key]*shader.Artifact
	roots      map[key]*node
	compiles   int // instrumentation: total compiler invocations, for tests
}

// New returns an empty Cache.
func New(compiler shader.Compiler, files *filecache.Cache) *Cache {
	return &Cache{
		compiler:   compiler,
		files:      files,
		cycleCache: make(map[key]*shader.Artifact),
		roots:      make(map[key]*node),
	}
}

// StartLoadCycle clears the load-cycle cache (the persistent include tree
// is left intact).
func (c *Cache) StartLoadCycle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cycleCache = make(map[key]*shader.Artifact)
}

// CompileCount returns the number of times the underlying compiler has
// actually been invoked. Exposed for dedup tests.
func (c *Cache) CompileCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compiles
}

// Compile resolves (stage, path, macros) against the two-level cache,
// compiling only on an actual miss.
func (c *Cache) Compile(stage gpu.Stage, path string, macros []shader.Macro) (*shader.Artifact, error) {
	k := makeKey(stage, path, macros)

	c.mu.Lock()
	if a, ok := c.cycleCache[k]; ok {
		c.mu.Unlock()
		return a, nil
	}
	root, ok := c.roots[k]
	if !ok {
		root = newNode(path)
		c.roots[k] = root
	}
	c.mu.Unlock()

	a, err := c.lookupOrCompile(stage, path, macros, k, root)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cycleCache[k] = a
	c.mu.Unlock()
	return a, nil
}

func (c *Cache) lookupOrCompile(stage gpu.Stage, path string, macros []shader.Macro, k key, n *node) (*shader.Artifact, error) {
	for n.nextPath != "" {
		f, err := c.files.Get(context.Background(), n.nextPath)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		child, ok := n.children[f.Hash]
		c.mu.Unlock()

		if !ok {
			return c.compileAndExtend(stage, path, macros, n)
		}
		if child.leaf != nil {
			return child.leaf, nil
		}
		n = child
	}
	return c.compileAndExtend(stage, path, macros, n)
}

func (c *Cache) compileAndExtend(stage gpu.Stage, path string, macros []shader.Macro, start *node) (*shader.Artifact, error) {
	artifact, chain, err := c.compiler.Compile(stage, path, macros, func(p string) ([]byte, uint64, error) {
		f, err := c.files.Get(context.Background(), p)
		if err != nil {
			return nil, 0, err
		}
		return f.Content, f.Hash, nil
	})

	c.mu.Lock()
	c.compiles++
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	n := start
	for i, ref := range chain {
		child, ok := n.children[ref.Hash]
		if !ok {
			var nextPath string
			if i+1 < len(chain) {
				nextPath = chain[i+1].Path
			}
			child = newNode(nextPath)
			n.children[ref.Hash] = child
		}
		n = child
	}
	n.leaf = artifact
	n.nextPath = ""
	c.mu.Unlock()

	return artifact, nil
}
