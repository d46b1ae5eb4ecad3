package render

import (
	"testing"

	"github.com/aedm/bitang/control"
	"github.com/aedm/bitang/globals"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/image"
	"github.com/aedm/bitang/shader"
	"github.com/aedm/bitang/sim"
	"github.com/aedm/bitang/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMipmapStep(t *testing.T, device gpu.Device) *steps.Mipmap {
	t.Helper()
	img, err := image.NewImmutable("beauty", device, gpu.Rgba8U, 4, 4, true)
	require.NoError(t, err)
	return &steps.Mipmap{
		ID:             "mips",
		Image:          img,
		Pipeline:       &fakeRenderPipeline{},
		DescriptorSets: []gpu.DescriptorSet{&fakeDescriptorSet{}, &fakeDescriptorSet{}},
	}
}

func newTestComputeStep(t *testing.T, device gpu.Device, run steps.RunKind, pipeline gpu.ComputePipeline) *steps.Compute {
	t.Helper()
	buf, err := image.NewDoubleBuffer("particles", device, 64)
	require.NoError(t, err)
	return &steps.Compute{
		ID: "sim_step", ItemCount: 10, Run: run, Buffer: buf,
		Artifact:       &shader.Artifact{},
		Pipeline:       pipeline,
		DescriptorSets: [2]gpu.DescriptorSet{&fakeDescriptorSet{}, &fakeDescriptorSet{}},
	}
}

func TestChart_RenderFrame_RunsDrawAndMipmapInOrderSkipsCompute(t *testing.T) {
	device := &fakeDevice{}
	encoder := &fakeEncoder{}

	compute := newTestComputeStep(t, device, steps.RunSimulate, &fakeComputePipeline{})
	draw := &steps.Draw{ID: "main", Passes: []steps.Pass{{ID: "p0"}}}
	mip := newTestMipmapStep(t, device)

	chart := NewChart("chart1", control.Set{}, &fakeCamera{}, nil, []Step{
		{Kind: StepCompute, Compute: compute},
		{Kind: StepDraw, Draw: draw},
		{Kind: StepMipmap, Mipmap: mip},
	}, 0)

	g := globals.New()
	err := chart.RenderFrame(device, encoder, g, 1.0, 0.5, false, 640, 480)
	require.NoError(t, err)

	// Draw's single pass opens one render pass, then Mipmap's 2 extra mip
	// levels (4x4 -> levels 1,2) open two more; Compute must not appear.
	assert.Equal(t, []string{"render", "render", "render"}, encoder.events)
	assert.Equal(t, float32(0.5), g.ChartTime)
}

func TestChart_ResetSimulation_RunsInitOnceThenSimulateUntilCaughtUp(t *testing.T) {
	device := &fakeDevice{}
	initPipeline := &fakeComputePipeline{}
	simPipeline := &fakeComputePipeline{}

	initStep := newTestComputeStep(t, device, steps.RunInit, initPipeline)
	simStep := newTestComputeStep(t, device, steps.RunSimulate, simPipeline)

	chart := &Chart{
		ID:     "c",
		Cursor: sim.New(0.1),
		Steps: []Step{
			{Kind: StepCompute, Compute: initStep},
			{Kind: StepCompute, Compute: simStep},
		},
	}

	encoder := &fakeEncoder{}
	g := globals.New()
	chart.Cursor.AdvanceCursor(0.1)
	chart.ResetSimulation(device, encoder, g)

	var initRuns, simRuns int
	for _, cp := range encoder.computePasses {
		switch cp.pipeline {
		case initPipeline:
			initRuns++
		case simPipeline:
			simRuns++
		}
	}

	assert.Equal(t, 1, initRuns)
	assert.GreaterOrEqual(t, simRuns, 1)
}

func TestChart_AdvanceSimulation_BoundsCatchUpWhilePaused(t *testing.T) {
	chart := &Chart{ID: "c", Cursor: sim.New(0)}
	chart.Cursor.Reset()
	chart.Cursor.StepAndReturnDiff()

	device := &fakeDevice{}
	encoder := &fakeEncoder{}
	g := globals.New()
	// A huge delta would require many steps to fully catch up; paused
	// advancement must still terminate (it never tries to run 600 compute
	// steps to close a 10-second gap), leaving simulation_time within a
	// small bounded number of ticks of the cursor.
	chart.AdvanceSimulation(device, encoder, g, 10.0, true)

	drift := chart.Cursor.CursorTime() - chart.Cursor.SimulationTime()
	if drift < 0 {
		drift = -drift
	}
	assert.LessOrEqual(t, drift, float32(pausedSimulateMaxSteps+1)*sim.StepSeconds)
}
