package steps

import (
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/image"
)

// fullScreenTriangleVertexCount is the fixed vertex count a mipmap blit
// draws: a single oversized triangle clipped to the viewport, needing no
// vertex buffer.
const fullScreenTriangleVertexCount = 3

// Mipmap is a compiled GenerateMipLevels step: a full-screen-triangle blit
// chain that downsamples level 0 into every further level, each level
// sampling the one immediately above it with a linear filter.
type Mipmap struct {
	ID    string
	Image *image.Image
	// Pipeline is a full-screen-triangle blit pipeline shared by every mip
	// level; its fragment shader samples a single bound texture.
	Pipeline gpu.RenderPipeline
	// DescriptorSets holds one descriptor set per target level (index 0
	// renders level 1 by sampling level 0, index 1 renders level 2 by
	// sampling level 1, and so on), each binding the previous level's view
	// through a linear-filtering sampler.
	DescriptorSets []gpu.DescriptorSet
}

// Execute blits level 0 down through every further mip level in order.
func (m *Mipmap) Execute(encoder gpu.CommandEncoder) error {
	levels := m.Image.MipLevels()
	width, height := m.Image.Width(), m.Image.Height()

	for level := uint32(1); level < levels; level++ {
		view, err := m.Image.ViewMipLevel(level)
		if err != nil {
			return err
		}
		rp := encoder.BeginRenderPass(gpu.RenderPassDescriptor{
			Colors: []gpu.ColorAttachment{{View: view, Load: gpu.LoadOpClear}},
		})
		rp.SetViewport(0, 0, float32(width>>level), float32(height>>level))
		rp.SetPipeline(m.Pipeline)
		rp.SetDescriptorSet(m.DescriptorSets[level-1])
		rp.Draw(fullScreenTriangleVertexCount, 1)
		rp.End()
	}
	return nil
}
