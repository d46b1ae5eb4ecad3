package steps

import (
	"github.com/aedm/bitang/common"
	"github.com/aedm/bitang/globals"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/image"
	"github.com/aedm/bitang/shader"
)

// RunKind tags whether a Compute step initializes a DoubleBuffer's state
// once, or advances it one simulation step.
type RunKind int

const (
	RunInit RunKind = iota
	RunSimulate
)

const computeWorkgroupSize = 64

// Compute is a compiled Compute step: a single dispatch over a
// double-buffered simulation state. Because a bind group's buffer bindings
// are immutable in WebGPU, DescriptorSets holds one precomputed set per
// buffer parity (index 0 for Buffer.Parity()==0, index 1 for ==1); Execute
// selects between them after flipping.
type Compute struct {
	ID             string
	ItemCount      uint32
	Run            RunKind
	Buffer         *image.DoubleBuffer
	Artifact       *shader.Artifact
	UniformBuffer  gpu.Buffer
	Controls       []shader.ControlBinding
	Pipeline       gpu.ComputePipeline
	DescriptorSets [2]gpu.DescriptorSet
}

// DispatchCount returns the number of workgroups ItemCount requires at the
// fixed 64-invocation workgroup size.
func (c *Compute) DispatchCount() uint32 {
	return ceilDiv(c.ItemCount, computeWorkgroupSize)
}

// Execute packs and uploads the shader's uniform buffer from g and its
// bound controls (§4.D point 1), flips the double buffer (for Simulate
// runs only, so the shader reads the prior frame's state from "current"
// and writes "next"; after the flip, "current" names the buffer just
// written), then dispatches the compute pipeline.
func (c *Compute) Execute(device gpu.Device, encoder gpu.CommandEncoder, g *globals.Globals) {
	if buf := shader.PackUniformBuffer(c.Artifact, g, c.Controls); buf != nil {
		device.Queue().WriteBuffer(c.UniformBuffer, 0, common.SliceToBytes(buf))
	}

	if c.Run == RunSimulate {
		c.Buffer.Step()
	}

	pass := encoder.BeginComputePass()
	pass.SetPipeline(c.Pipeline)
	pass.SetDescriptorSet(c.DescriptorSets[c.Buffer.Parity()])
	pass.Dispatch(c.DispatchCount(), 1, 1)
	pass.End()
}

func ceilDiv(n, d uint32) uint32 {
	if n == 0 {
		return 0
	}
	return (n + d - 1) / d
}
