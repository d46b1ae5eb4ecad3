// Package shader defines the compiled shader artifact and its reflected
// bindings. Compilation and reflection themselves live behind the Compiler
// contract (implemented by shader/wgslcompiler, which expands and reflects
// WGSL source text; GLSL source and SPIR-V are not handled); this package
// only defines that contract and the data it produces.
package shader

import (
	"github.com/aedm/bitang/globals"
	"github.com/aedm/bitang/gpu"
)

// DescriptorSetIndex returns the fixed descriptor set index a stage's
// bindings live in: vertex and compute shaders bind set 0, fragment
// shaders bind set 1.
func DescriptorSetIndex(stage gpu.Stage) uint32 {
	if stage == gpu.StageFragment {
		return 1
	}
	return 0
}

// SamplerBinding is one reflected combined image-sampler.
type SamplerBinding struct {
	Name    string
	Binding uint32
}

// StorageBufferBinding is one reflected storage buffer.
type StorageBufferBinding struct {
	Name    string
	Binding uint32
}

// GlobalUniformMember is a uniform buffer member whose name begins with
// `g_`, mapping it to a fixed Globals slot.
type GlobalUniformMember struct {
	ByteOffset uint32
	Kind       globals.Kind
}

// LocalUniformMember is a uniform buffer member bound to a control instead
// of a global.
type LocalUniformMember struct {
	ByteOffset uint32
	F32Count   uint32
	Name       string
}

// Artifact is a compiled shader module plus everything reflection extracted
// from it.
type Artifact struct {
	Module gpu.ShaderModule
	Stage  gpu.Stage

	Samplers       []SamplerBinding
	StorageBuffers []StorageBufferBinding
	GlobalUniforms []GlobalUniformMember
	LocalUniforms  []LocalUniformMember

	UniformBufferSize uint32 // bytes; 0 if the shader declares no uniform buffer
}

// IncludeRef is one step of a shader's resolved #include chain: the path
// the compiler read and the content hash of what it read at that moment.
type IncludeRef struct {
	Path string
	Hash uint64
}

// IncludeResolver returns the bytes and content hash of a #include target,
// backed by the file cache.
type IncludeResolver func(path string) (content []byte, hash uint64, err error)

// Macro is one (name, value) pair passed to the compiler, including the
// synthesized `IMAGE_BOUND_TO_SAMPLER_<NAME>=1` macros for bound textures.
type Macro struct {
	Name  string
	Value string
}

// Compiler resolves #include directives via resolveInclude, compiles path
// for stage with macros applied, and returns the resulting Artifact
// alongside the ordered include chain actually walked (path first, entry
// file itself included as the first element) for cache keying.
type Compiler interface {
	Compile(stage gpu.Stage, path string, macros []Macro, resolveInclude IncludeResolver) (*Artifact, []IncludeRef, error)
}
