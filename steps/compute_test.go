package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aedm/bitang/common"
	"github.com/aedm/bitang/control"
	"github.com/aedm/bitang/globals"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/image"
	"github.com/aedm/bitang/shader"
)

func TestCompute_DispatchCountCeilsTo64(t *testing.T) {
	c := &Compute{ItemCount: 1000}
	assert.Equal(t, uint32(16), c.DispatchCount()) // ceil(1000/64) = 16

	c2 := &Compute{ItemCount: 64}
	assert.Equal(t, uint32(1), c2.DispatchCount())

	c3 := &Compute{ItemCount: 0}
	assert.Equal(t, uint32(0), c3.DispatchCount())
}

func TestCompute_SimulateFlipsBufferBeforeDispatchAndSelectsSet(t *testing.T) {
	dev := &fakeDevice{}
	buf, err := image.NewDoubleBuffer("particles", dev, 64)
	require.NoError(t, err)

	setParity0 := &fakeDescriptorSet{name: "p0"}
	setParity1 := &fakeDescriptorSet{name: "p1"}

	c := &Compute{
		ItemCount:      100,
		Run:            RunSimulate,
		Buffer:         buf,
		Artifact:       &shader.Artifact{},
		Pipeline:       &fakeComputePipeline{},
		DescriptorSets: [2]gpu.DescriptorSet{setParity0, setParity1},
	}

	enc := &fakeEncoder{}
	g := globals.New()
	c.Execute(dev, enc, g)

	require.Len(t, enc.computePasses, 1)
	pass := enc.computePasses[0]
	assert.Equal(t, uint32(2), pass.dispatchX) // ceil(100/64) = 2
	assert.True(t, pass.ended)

	// Parity started at 0; Step flipped it to 1, so the parity-1 set is bound.
	require.Len(t, pass.descriptorSets, 1)
	assert.Same(t, setParity1, pass.descriptorSets[0])

	// A second Execute flips back to parity 0.
	c.Execute(dev, enc, g)
	require.Len(t, enc.computePasses, 2)
	assert.Same(t, setParity0, enc.computePasses[1].descriptorSets[0])
}

func TestCompute_InitDoesNotFlip(t *testing.T) {
	dev := &fakeDevice{}
	buf, err := image.NewDoubleBuffer("particles", dev, 64)
	require.NoError(t, err)

	setParity0 := &fakeDescriptorSet{name: "p0"}
	c := &Compute{
		ItemCount:      64,
		Run:            RunInit,
		Buffer:         buf,
		Artifact:       &shader.Artifact{},
		Pipeline:       &fakeComputePipeline{},
		DescriptorSets: [2]gpu.DescriptorSet{setParity0, nil},
	}

	enc := &fakeEncoder{}
	c.Execute(dev, enc, globals.New())
	assert.Same(t, setParity0, enc.computePasses[0].descriptorSets[0])
}

func TestCompute_ExecutePacksAndUploadsUniformBufferFromGlobalsAndControls(t *testing.T) {
	dev := &fakeDevice{}
	buf, err := image.NewDoubleBuffer("particles", dev, 64)
	require.NoError(t, err)
	uniformBuf := &fakeBuffer{}

	speed := control.NewControl(control.Id{}, [4]float32{0, 0, 0, 0})
	speed.Set([4]float32{2.5, 0, 0, 0})

	artifact := &shader.Artifact{
		UniformBufferSize: 8, // two f32 members
		GlobalUniforms:    []shader.GlobalUniformMember{{ByteOffset: 0, Kind: globals.ChartTime}},
		LocalUniforms:     []shader.LocalUniformMember{{ByteOffset: 4, F32Count: 1, Name: "speed"}},
	}

	c := &Compute{
		ItemCount:     64,
		Run:           RunInit,
		Buffer:        buf,
		Artifact:      artifact,
		UniformBuffer: uniformBuf,
		Controls:      []shader.ControlBinding{{MemberIndex: 0, Source: speed}},
		Pipeline:      &fakeComputePipeline{},
		DescriptorSets: [2]gpu.DescriptorSet{&fakeDescriptorSet{}, &fakeDescriptorSet{}},
	}

	g := globals.New()
	g.ChartTime = 1.5
	enc := &fakeEncoder{}
	c.Execute(dev, enc, g)

	require.Len(t, dev.writes, 1)
	assert.Same(t, uniformBuf, dev.writes[0].buffer)
	assert.Equal(t, common.SliceToBytes([]float32{1.5, 2.5}), dev.writes[0].data)
}
