package wgslcompiler

import (
	"testing"

	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModule struct{}

func (fakeModule) Release() {}

type fakeDevice struct {
	gpu.Device
	compiledSource string
}

func (d *fakeDevice) CreateShaderModule(stage gpu.Stage, source string) (gpu.ShaderModule, error) {
	d.compiledSource = source
	return fakeModule{}, nil
}

const uniformFragmentShader = `
struct Uniforms {
    g_app_time: f32,
    tint: vec4<f32>,
}

@group(1) @binding(0) var<uniform> u: Uniforms;
@group(1) @binding(1) var input_tex: texture_2d<f32>;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return u.tint;
}
`

func TestCompiler_Compile_ReflectsUniformsAndSamplers(t *testing.T) {
	device := &fakeDevice{}
	c := New(device)

	resolve := func(path string) ([]byte, uint64, error) {
		require.Equal(t, "post.wgsl", path)
		return []byte(uniformFragmentShader), 1, nil
	}

	artifact, chain, err := c.Compile(gpu.StageFragment, "post.wgsl", nil, resolve)
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, "post.wgsl", chain[0].Path)

	require.Len(t, artifact.GlobalUniforms, 1)
	assert.Equal(t, uint32(0), artifact.GlobalUniforms[0].ByteOffset)

	require.Len(t, artifact.LocalUniforms, 1)
	assert.Equal(t, "tint", artifact.LocalUniforms[0].Name)
	assert.Equal(t, uint32(16), artifact.LocalUniforms[0].ByteOffset)
	assert.Equal(t, uint32(4), artifact.LocalUniforms[0].F32Count)

	require.Len(t, artifact.Samplers, 1)
	assert.Equal(t, "input_tex", artifact.Samplers[0].Name)
	assert.Equal(t, uint32(1), artifact.Samplers[0].Binding)

	assert.Equal(t, uniformFragmentShader, device.compiledSource)
}

func TestExpandIncludes_InlinesChildAndListsParentFirst(t *testing.T) {
	files := map[string]string{
		"main.wgsl":   "fn a() {}\n#include \"common.wgsl\"\nfn b() {}\n",
		"common.wgsl": "fn common() {}\n",
	}
	resolve := func(path string) ([]byte, uint64, error) {
		return []byte(files[path]), uint64(len(files[path])), nil
	}

	source, chain, err := expandIncludes("main.wgsl", resolve, nil)
	require.NoError(t, err)
	assert.Contains(t, source, "fn common() {}")
	require.Len(t, chain, 2)
	assert.Equal(t, "main.wgsl", chain[0].Path)
	assert.Equal(t, "common.wgsl", chain[1].Path)
}

func TestExpandIncludes_RejectsCycle(t *testing.T) {
	files := map[string]string{
		"a.wgsl": "#include \"b.wgsl\"\n",
		"b.wgsl": "#include \"a.wgsl\"\n",
	}
	resolve := func(path string) ([]byte, uint64, error) {
		return []byte(files[path]), 1, nil
	}

	_, _, err := expandIncludes("a.wgsl", resolve, nil)
	assert.Error(t, err)
}

func TestApplyMacros_IfdefGatesBlockAndSubstitutesValue(t *testing.T) {
	source := "#ifdef IMAGE_BOUND_TO_SAMPLER_INPUT\nlet bound = IMAGE_BOUND_TO_SAMPLER_INPUT;\n#else\nlet bound = 0;\n#endif\n"
	out := applyMacros(source, []shader.Macro{{Name: "IMAGE_BOUND_TO_SAMPLER_INPUT", Value: "1"}})
	assert.Contains(t, out, "let bound = 1;")
	assert.NotContains(t, out, "let bound = 0;")
}

func TestApplyMacros_IfdefFalseBranchKeepsElse(t *testing.T) {
	source := "#ifdef UNDEFINED_MACRO\nlet bound = 1;\n#else\nlet bound = 0;\n#endif\n"
	out := applyMacros(source, nil)
	assert.Contains(t, out, "let bound = 0;")
	assert.NotContains(t, out, "let bound = 1;")
}
