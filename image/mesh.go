package image

import (
	"encoding/binary"
	"math"

	"github.com/aedm/bitang/apperr"
	"github.com/aedm/bitang/gpu"
)

// Vertex is the fixed GPU vertex layout every mesh uploads: position,
// normal, tangent, UV, and a pad float keeping the stride 16-byte aligned.
// Size: 48 bytes.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Tangent  [3]float32
	UV       [2]float32
	Pad      float32
}

// Marshal serializes v into its 48-byte GPU layout, little-endian.
func (v Vertex) Marshal() []byte {
	buf := make([]byte, 48)
	put := func(off int, f float32) { binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f)) }
	put(0, v.Position[0])
	put(4, v.Position[1])
	put(8, v.Position[2])
	put(12, v.Normal[0])
	put(16, v.Normal[1])
	put(20, v.Normal[2])
	put(24, v.Tangent[0])
	put(28, v.Tangent[1])
	put(32, v.Tangent[2])
	put(36, v.UV[0])
	put(40, v.UV[1])
	put(44, v.Pad)
	return buf
}

// Mesh is a GPU-resident vertex buffer plus an optional u32 index buffer.
type Mesh struct {
	ID          string
	VertexCount uint32
	IndexCount  uint32

	vertexBuffer gpu.Buffer
	indexBuffer  gpu.Buffer
}

// NewMesh uploads vertices (and indices, if non-empty) to newly allocated
// GPU buffers.
func NewMesh(id string, device gpu.Device, vertices []Vertex, indices []uint32) (*Mesh, error) {
	data := make([]byte, 0, len(vertices)*48)
	for _, v := range vertices {
		data = append(data, v.Marshal()...)
	}
	vb, err := device.CreateBuffer(gpu.BufferUsageVertex|gpu.BufferUsageCopyDst, uint64(len(data)))
	if err != nil {
		return nil, apperr.New(apperr.GPU, id, err)
	}
	device.Queue().WriteBuffer(vb, 0, data)

	m := &Mesh{ID: id, VertexCount: uint32(len(vertices)), vertexBuffer: vb}

	if len(indices) > 0 {
		idata := make([]byte, len(indices)*4)
		for i, idx := range indices {
			binary.LittleEndian.PutUint32(idata[i*4:i*4+4], idx)
		}
		ib, err := device.CreateBuffer(gpu.BufferUsageIndex|gpu.BufferUsageCopyDst, uint64(len(idata)))
		if err != nil {
			return nil, apperr.New(apperr.GPU, id, err)
		}
		device.Queue().WriteBuffer(ib, 0, idata)
		m.indexBuffer = ib
		m.IndexCount = uint32(len(indices))
	}
	return m, nil
}

// VertexBuffer returns the mesh's vertex buffer.
func (m *Mesh) VertexBuffer() gpu.Buffer { return m.vertexBuffer }

// IndexBuffer returns the mesh's index buffer, or nil if the mesh is
// unindexed.
func (m *Mesh) IndexBuffer() gpu.Buffer { return m.indexBuffer }

// HasIndices reports whether the mesh has an index buffer.
func (m *Mesh) HasIndices() bool { return m.indexBuffer != nil }
