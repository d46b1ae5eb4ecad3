package descriptor

import (
	"testing"

	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProject_LengthIsLatestEndTime(t *testing.T) {
	src := `Project(
    cuts: [
        Cut(chart: "intro", start_time: 0, end_time: 10, offset: 0),
        Cut(chart: "outro", start_time: 10, end_time: 25, offset: 0),
    ],
)`
	p, err := DecodeProject("project.ron", src)
	require.NoError(t, err)
	require.Len(t, p.Cuts, 2)
	assert.Equal(t, "outro", p.Cuts[1].Chart)
	assert.Equal(t, float32(25), p.Length())
}

func TestDecodeChart_ImagesBuffersAndSteps(t *testing.T) {
	src := `Chart(
    simulation_precalculation_time: 1.0,
    images: [
        Image(id: "beauty", size: CanvasRelative(1.0), format: "Rgba16F", has_mipmaps: true),
        Image(id: "thumb", size: Fixed(256, 256), format: "Rgba8Srgb"),
    ],
    buffers: [
        DoubleBuffer(id: "particles", item_count: 1000, item_bytes: 32),
    ],
    steps: [
        Draw(
            id: "main_pass",
            passes: [
                Pass(id: "p0", color_images: [Screen]),
            ],
            items: [
                Item(id: "cube", mesh: "cube.obj", material: "cube_mat", instances: 1),
            ],
        ),
        Compute(id: "sim_step", shader: "sim.comp", run: Simulation("particles")),
        GenerateMipLevels(id: "mips", image_id: "beauty"),
    ],
)`
	c, err := DecodeChart("chart.ron", src)
	require.NoError(t, err)

	require.Len(t, c.Images, 2)
	assert.Equal(t, image.CanvasRelative, c.Images[0].SizeRule.Kind)
	assert.Equal(t, gpu.Rgba16F, c.Images[0].Format)
	assert.True(t, c.Images[0].HasMipmaps)
	assert.Equal(t, image.Fixed, c.Images[1].SizeRule.Kind)
	assert.Equal(t, uint32(256), c.Images[1].SizeRule.W)

	require.Len(t, c.Buffers, 1)
	assert.Equal(t, uint32(1000), c.Buffers[0].ItemCount)

	require.Len(t, c.Steps, 3)
	assert.Equal(t, StepDraw, c.Steps[0].Kind)
	require.NotNil(t, c.Steps[0].Draw)
	assert.Equal(t, "Screen", c.Steps[0].Draw.Passes[0].ColorImageIDs[0])
	assert.Equal(t, float32(1), c.Steps[0].Draw.Items[0].Instances)

	assert.Equal(t, StepCompute, c.Steps[1].Kind)
	require.NotNil(t, c.Steps[1].Compute)
	assert.Equal(t, RunSimulate, c.Steps[1].Compute.Run)
	assert.Equal(t, "particles", c.Steps[1].Compute.BufferID)

	assert.Equal(t, StepGenerateMipLevels, c.Steps[2].Kind)
	assert.Equal(t, "beauty", c.Steps[2].MipmapImageID)
}

func TestDecodeChart_PassDefaultClearColor(t *testing.T) {
	src := `Chart(steps: [
        Draw(id: "d", passes: [Pass(id: "p0", color_images: [Screen])], items: []),
    ])`
	c, err := DecodeChart("chart.ron", src)
	require.NoError(t, err)
	pass := c.Steps[0].Draw.Passes[0]
	assert.True(t, pass.HasClearColor)
	assert.Equal(t, [4]float32{0.03, 0.03, 0.03, 1}, pass.ClearColor)
}

func TestDecodeChart_PassExplicitClearColor(t *testing.T) {
	src := `Chart(steps: [
        Draw(id: "d", passes: [Pass(id: "p0", color_images: [Screen], clear_color: Some((0, 0, 0, 1)))], items: []),
    ])`
	c, err := DecodeChart("chart.ron", src)
	require.NoError(t, err)
	pass := c.Steps[0].Draw.Passes[0]
	assert.True(t, pass.HasClearColor)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, pass.ClearColor)
}

func TestDecodeMaterial_PassesAndBlendMode(t *testing.T) {
	src := `Material(
    passes: {
        "p0": MaterialPass(
            vertex_shader: "cube.vert",
            fragment_shader: "cube.frag",
            blend_mode: Additive,
        ),
    },
)`
	m, err := DecodeMaterial("material.ron", src)
	require.NoError(t, err)
	require.Contains(t, m.Passes, "p0")
	assert.Equal(t, "cube.vert", m.Passes["p0"].VertexShader)
	assert.Equal(t, gpu.BlendAdditive, m.Passes["p0"].Blend)
}

func TestDecodeMaterial_TexturesAndBuffers(t *testing.T) {
	src := `Material(
    passes: {
        "p0": MaterialPass(vertex_shader: "a.vert", fragment_shader: "a.frag"),
    },
    textures: { diffuse: "wood.png" },
    buffers: { particles: Current("particles") },
)`
	m, err := DecodeMaterial("material.ron", src)
	require.NoError(t, err)
	assert.Equal(t, "wood.png", m.Textures["diffuse"])
	require.Contains(t, m.Buffers, "particles")
	assert.Equal(t, BufferCurrent, m.Buffers["particles"].Side)
}

func TestDecodeCompute_BuffersAndControlMap(t *testing.T) {
	src := `Compute(
    shader: "sim.comp",
    run: Simulation("particles"),
    buffers: { state: Next("particles") },
    control_map: { g_speed: "speed" },
)`
	c, err := DecodeChart("chart.ron", `Chart(steps: [`+src+`])`)
	require.NoError(t, err)
	compute := c.Steps[0].Compute
	require.NotNil(t, compute)
	require.Contains(t, compute.Buffers, "state")
	assert.Equal(t, BufferNext, compute.Buffers["state"].Side)
	assert.Equal(t, "speed", compute.ControlMap["g_speed"])
}

func TestDecodeConfig_DefaultsAndFields(t *testing.T) {
	c, err := DecodeConfig("config.ron", `Config(root_folder: "content", start_in_demo_mode: true)`)
	require.NoError(t, err)
	assert.Equal(t, "content", c.RootFolder)
	assert.True(t, c.StartInDemoMode)

	c2, err := DecodeConfig("config.ron", `Config(root_folder: "content")`)
	require.NoError(t, err)
	assert.False(t, c2.StartInDemoMode)
}
