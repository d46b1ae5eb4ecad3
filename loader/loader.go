// Package loader wires the declarative descriptors (project.ron, chart.ron,
// material fragments) to runtime render-graph objects, fanning work out
// across the content-hash-keyed caches so a hot-reload only rebuilds the
// parts of the graph whose inputs actually changed.
//
// On-disk layout, relative to a Loader's Root:
//
//	project.ron
//	charts/<chart-id>/chart.ron
//	materials/<material-id>.ron   (shared across charts)
//	meshes/..., textures/..., shaders/...
//
// Every mesh, texture, material, and shader id referenced from a descriptor
// (item mesh, material/compute texture, material pass shader) is itself a
// path relative to Root, read and cached independently of the chart that
// first referenced it so two charts sharing an asset only load it once.
package loader

import (
	"context"
	"path/filepath"

	"github.com/aedm/bitang/cache"
	"github.com/aedm/bitang/control"
	"github.com/aedm/bitang/filecache"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/image"
	"github.com/aedm/bitang/render"
	"github.com/aedm/bitang/shader"
	"github.com/aedm/bitang/shadercache"
	"github.com/aedm/bitang/steps"
)

// MeshDecoder turns a mesh file's raw bytes into vertex/index data.
// GLTFMeshDecoder is this package's implementation (glTF and GLB only).
type MeshDecoder interface {
	Decode(path string, content []byte) (vertices []image.Vertex, indices []uint32, err error)
}

// TextureDecoder turns an image file's raw bytes into RGBA8 pixels.
type TextureDecoder interface {
	Decode(path string, content []byte) (pixels []byte, width, height uint32, err error)
}

// Loader owns every cache involved in turning descriptors into a running
// Project, plus the external collaborators (GPU device, shader compiler,
// mesh/texture decoders) it drives them with.
type Loader struct {
	Root string

	Device   gpu.Device
	Compiler shader.Compiler
	Meshes   MeshDecoder
	Textures TextureDecoder

	Repo    *control.Repository
	Files   *filecache.Cache
	Shaders *shadercache.Cache

	meshCache     *cache.Cache[string, *image.Mesh]
	textureCache  *cache.Cache[string, *image.Image]
	materialCache *cache.Cache[string, *steps.Material]
	chartCache    *cache.Cache[string, *render.Chart]

	screenImage *image.Image
}

// New creates a Loader rooted at root, the project folder containing
// project.ron.
func New(root string, device gpu.Device, compiler shader.Compiler, meshes MeshDecoder, textures TextureDecoder) *Loader {
	files := filecache.New()
	return &Loader{
		Root:     root,
		Device:   device,
		Compiler: compiler,
		Meshes:   meshes,
		Textures: textures,
		Repo:     control.NewRepository(),
		Files:    files,
		Shaders:  shadercache.New(compiler, files),

		meshCache:     cache.New[string, *image.Mesh](),
		textureCache:  cache.New[string, *image.Image](),
		materialCache: cache.New[string, *steps.Material](),
		chartCache:    cache.New[string, *render.Chart](),
	}
}

// StartLoadCycle resets every cache's accessed-this-cycle bookkeeping and
// the control repository's used-component counters. Called once before each
// reload attempt (§4.M).
func (l *Loader) StartLoadCycle() {
	l.Files.StartLoadCycle()
	l.Shaders.StartLoadCycle()
	l.meshCache.StartLoadCycle()
	l.textureCache.StartLoadCycle()
	l.materialCache.StartLoadCycle()
	l.chartCache.StartLoadCycle()
	l.Repo.ResetUsedComponentCounts()
}

// DisplayLoadErrors logs every cache's load failures from the current cycle.
func (l *Loader) DisplayLoadErrors() {
	l.Files.DisplayLoadErrors()
	l.meshCache.DisplayLoadErrors()
	l.textureCache.DisplayLoadErrors()
	l.materialCache.DisplayLoadErrors()
	l.chartCache.DisplayLoadErrors()
}

// HasMissingFiles reports whether any file read failed during the current
// cycle, the project loader's retry trigger (§4.M).
func (l *Loader) HasMissingFiles() bool { return l.Files.HasMissingFiles() }

// abs resolves a descriptor-relative path against Root.
func (l *Loader) abs(rel string) string {
	return filepath.Join(l.Root, rel)
}

func (l *Loader) readFile(ctx context.Context, rel string) (filecache.File, error) {
	return l.Files.Get(ctx, l.abs(rel))
}
