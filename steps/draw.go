package steps

import (
	"math"

	"github.com/aedm/bitang/camera"
	"github.com/aedm/bitang/common"
	"github.com/aedm/bitang/globals"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/image"
	"github.com/aedm/bitang/shader"
)

// shadowPassID is the one reserved render pass id a Draw step uses to
// recognize the shadow pass and ask the camera for its orthographic
// light-space globals instead of the usual perspective ones.
const shadowPassID = "shadow"

// Pass is one render pass within a Draw step.
type Pass struct {
	ID            string
	ColorTargets  []*image.Image // a Swapchain-kind Image denotes the screen
	DepthTarget   *image.Image
	HasClearColor bool
	ClearColor    [4]float32
}

// Draw is a compiled Draw step: an ordered Pass list applied to a set of
// Items, each rendered once per pass whose id its material declares a
// MaterialPass for.
type Draw struct {
	ID            string
	Passes        []Pass
	Items         []*Item
	LightDir      [3]float32 // worldspace, normalized by Execute
	ShadowMapSize float32
}

// Execute records one render pass per Pass, in order, drawing every Item
// whose material participates in that pass.
func (d *Draw) Execute(device gpu.Device, encoder gpu.CommandEncoder, g *globals.Globals, cam camera.Camera, appTime float32, canvasW, canvasH uint32) error {
	g.LightDirWorldspaceNorm = normalize3(d.LightDir)

	for _, pass := range d.Passes {
		if err := d.executePass(device, encoder, pass, g, cam, appTime, canvasW, canvasH); err != nil {
			return err
		}
	}
	return nil
}

func (d *Draw) executePass(device gpu.Device, encoder gpu.CommandEncoder, pass Pass, g *globals.Globals, cam camera.Camera, appTime float32, canvasW, canvasH uint32) error {
	viewportW, viewportH := passViewport(pass, canvasW, canvasH)

	if pass.ID == shadowPassID {
		cam.SetShadowGlobals(g, d.LightDir, d.ShadowMapSize)
	} else {
		cam.SetGlobals(g, appTime, viewportW, viewportH)
	}

	desc := gpu.RenderPassDescriptor{}
	load := gpu.LoadOpLoad
	if pass.HasClearColor {
		load = gpu.LoadOpClear
	}
	for _, target := range pass.ColorTargets {
		view, err := target.ViewAsRenderTarget()
		if err != nil {
			return err
		}
		desc.Colors = append(desc.Colors, gpu.ColorAttachment{
			View: view, Load: load,
			ClearR: pass.ClearColor[0], ClearG: pass.ClearColor[1],
			ClearB: pass.ClearColor[2], ClearA: pass.ClearColor[3],
		})
	}
	if pass.DepthTarget != nil {
		view, err := pass.DepthTarget.ViewAsRenderTarget()
		if err != nil {
			return err
		}
		desc.Depth = &gpu.DepthAttachment{View: view, Load: load}
	}

	rp := encoder.BeginRenderPass(desc)
	rp.SetViewport(0, 0, float32(viewportW), float32(viewportH))

	for _, item := range d.Items {
		mp, ok := item.Material.Passes[pass.ID]
		if !ok {
			continue
		}
		drawItem(device, rp, item, mp, g)
	}

	rp.End()
	return nil
}

// drawItem applies item's world transform and instance count to g, packs
// and uploads both stages' uniform buffers, and issues the draw call.
func drawItem(device gpu.Device, rp gpu.RenderPass, item *Item, mp *MaterialPass, g *globals.Globals) {
	if item.Position != nil && item.Rotation != nil {
		g.WorldFromModel = worldFromModel(item.Position.AsVec3(), item.Rotation.AsVec3())
	} else {
		g.WorldFromModel = identity4()
	}
	g.UpdateCompoundMatrices()

	instanceCount := uint32(1)
	if item.Instances != nil {
		instanceCount = roundToInstanceCount(item.Instances.AsFloat())
	}
	g.InstanceCount = float32(instanceCount)

	if vertexBuf := shader.PackUniformBuffer(mp.VertexArtifact, g, mp.VertexControls); vertexBuf != nil {
		device.Queue().WriteBuffer(mp.VertexUniformBuffer, 0, common.SliceToBytes(vertexBuf))
	}
	if fragmentBuf := shader.PackUniformBuffer(mp.FragmentArtifact, g, mp.FragmentControls); fragmentBuf != nil {
		device.Queue().WriteBuffer(mp.FragmentUniformBuffer, 0, common.SliceToBytes(fragmentBuf))
	}

	rp.SetPipeline(mp.Pipeline)
	rp.SetDescriptorSet(mp.VertexSet)
	rp.SetDescriptorSet(mp.FragmentSet)
	rp.SetVertexBuffer(item.Mesh.VertexBuffer())

	if item.Mesh.HasIndices() {
		rp.SetIndexBuffer(item.Mesh.IndexBuffer())
		rp.DrawIndexed(item.Mesh.IndexCount, instanceCount)
	} else {
		rp.Draw(item.Mesh.VertexCount, instanceCount)
	}
}

// passViewport returns the pass's viewport extent: its first color
// attachment's resolved size, or the full canvas when that attachment is
// the swapchain image.
func passViewport(pass Pass, canvasW, canvasH uint32) (uint32, uint32) {
	if len(pass.ColorTargets) == 0 {
		return canvasW, canvasH
	}
	first := pass.ColorTargets[0]
	if first.Kind == image.Swapchain {
		return canvasW, canvasH
	}
	return first.Width(), first.Height()
}

func normalize3(v [3]float32) [3]float32 {
	length := sqrt32(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if length == 0 {
		return v
	}
	return [3]float32{v[0] / length, v[1] / length, v[2] / length}
}

func sqrt32(v float32) float32 { return float32(math.Sqrt(float64(v))) }

func identity4() [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
