package wgpubackend

import (
	"github.com/aedm/bitang/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// Queue wraps a wgpu.Queue.
type Queue struct {
	queue *wgpu.Queue
}

func (q *Queue) Submit(buffers ...gpu.CommandBuffer) {
	raw := make([]*wgpu.CommandBuffer, len(buffers))
	for i, b := range buffers {
		raw[i] = b.(*CommandBuffer).buf
	}
	q.queue.Submit(raw...)
}

func (q *Queue) WriteBuffer(b gpu.Buffer, offset uint64, data []byte) {
	q.queue.WriteBuffer(b.(*Buffer).Raw(), offset, data)
}

func (q *Queue) WriteTexture(tex gpu.Texture, width, height uint32, pixels []byte) {
	q.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex.(*Texture).tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  width * 4,
			RowsPerImage: height,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)
}
