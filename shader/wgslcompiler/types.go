// Package wgslcompiler is the default shader.Compiler: it resolves
// #include directives and macros textually, hands the result to
// gpu.Device for module creation, and reflects the uniform buffer and
// resource bindings straight out of the WGSL text. SPIR-V reflection (what
// the original engine used) has no equivalent in the pack since the wgpu
// binding here is WGSL-only end to end, so reflection works on source text
// instead of a compiled binary. Adapted from the teacher's
// engine/renderer/shader WGSL parser, trimmed of the vertex-buffer-layout
// and entry-point extraction it also did — this engine pins vertex layout
// to image.Vertex and entry point names to vs_main/fs_main/cs_main by
// convention, so neither needs reflecting.
package wgslcompiler

// wgslTypeLayout holds the byte size and alignment of a WGSL type, per the
// WGSL specification's alignment-and-size rules.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is one field of a WGSL struct block.
type parsedField struct {
	name     string
	typeName string
}

// parsedStruct is one `struct Name { ... }` block.
type parsedStruct struct {
	name   string
	fields []parsedField
}

// wgslPrimitiveLayoutMap maps WGSL primitive, vector, and matrix type names
// to their byte size and alignment.
var wgslPrimitiveLayoutMap = map[string]wgslTypeLayout{
	"f32": {4, 4}, "i32": {4, 4}, "u32": {4, 4}, "bool": {4, 4},

	"vec2<f32>": {8, 8}, "vec2f": {8, 8},
	"vec3<f32>": {12, 16}, "vec3f": {12, 16},
	"vec4<f32>": {16, 16}, "vec4f": {16, 16},

	"vec2<i32>": {8, 8}, "vec2i": {8, 8},
	"vec3<i32>": {12, 16}, "vec3i": {12, 16},
	"vec4<i32>": {16, 16}, "vec4i": {16, 16},

	"vec2<u32>": {8, 8}, "vec2u": {8, 8},
	"vec3<u32>": {12, 16}, "vec3u": {12, 16},
	"vec4<u32>": {16, 16}, "vec4u": {16, 16},

	"mat2x2<f32>": {16, 8},
	"mat3x3<f32>": {48, 16},
	"mat4x4<f32>": {64, 16},
}

// wgslSampledTexturePrefixes identifies handle-type declarations that bind a
// sampled (not storage) texture.
var wgslSampledTexturePrefixes = []string{
	"texture_1d", "texture_2d", "texture_2d_array", "texture_3d",
	"texture_cube", "texture_cube_array", "texture_multisampled_2d",
	"texture_depth_2d", "texture_depth_2d_array", "texture_depth_cube",
	"texture_depth_cube_array", "texture_depth_multisampled_2d",
}
