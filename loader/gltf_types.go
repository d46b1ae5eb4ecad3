// gltf_types.go carries the subset of the glTF 2.0 JSON schema the mesh
// decoder actually reads: static geometry only (accessors, buffer views,
// buffers, mesh primitives). Scene-graph, material, skinning and animation
// sections of the format are not represented — this engine's meshes are
// bare vertex/index buffers (§3 Mesh), bound to shader-driven materials
// that have nothing to do with glTF's own material model.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package loader

// gltfDocument is the root of a glTF JSON document, trimmed to the
// sections extractPrimitive actually reads.
type gltfDocument struct {
	Asset       gltfAsset        `json:"asset"`
	Meshes      []gltfMesh       `json:"meshes,omitempty"`
	Accessors   []gltfAccessor   `json:"accessors,omitempty"`
	BufferViews []gltfBufferView `json:"bufferViews,omitempty"`
	Buffers     []gltfBuffer     `json:"buffers,omitempty"`
}

// gltfAsset carries the version field the parser checks; generator and
// copyright metadata are not consulted.
type gltfAsset struct {
	Version string `json:"version"`
}

// gltfMesh is a set of primitives to be rendered.
type gltfMesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []gltfPrimitive `json:"primitives"`
}

// gltfPrimitive defines one piece of geometry. Only the standard
// POSITION/NORMAL/TANGENT/TEXCOORD_0 attributes are read.
type gltfPrimitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Mode       *int           `json:"mode,omitempty"`
}

const gltfPrimitiveModeTriangles = 4

// gltfAccessor defines how to interpret buffer data for one attribute or
// index stream.
type gltfAccessor struct {
	BufferView    *int    `json:"bufferView,omitempty"`
	ByteOffset    int     `json:"byteOffset,omitempty"`
	ComponentType int     `json:"componentType"`
	Count         int     `json:"count"`
	Type          string  `json:"type"`
	Sparse        *gltfSparse `json:"sparse,omitempty"`
}

// gltfSparse is retained only so the parser can detect and reject sparse
// accessors; this decoder has no sparse-update support.
type gltfSparse struct {
	Count int `json:"count"`
}

const (
	gltfComponentTypeUnsignedByte  = 5121
	gltfComponentTypeUnsignedShort = 5123
	gltfComponentTypeUnsignedInt   = 5125
	gltfComponentTypeFloat         = 5126
)

const (
	gltfAccessorTypeScalar = "SCALAR"
	gltfAccessorTypeVec2   = "VEC2"
	gltfAccessorTypeVec3   = "VEC3"
	gltfAccessorTypeVec4   = "VEC4"
)

// gltfBufferView is a byte-range window into a gltfBuffer.
type gltfBufferView struct {
	Buffer     int  `json:"buffer"`
	ByteOffset int  `json:"byteOffset,omitempty"`
	ByteLength int  `json:"byteLength"`
	ByteStride *int `json:"byteStride,omitempty"`
}

// gltfBuffer is raw binary data, loaded from an embedded base64 data: URI
// or (buffer 0 only) the GLB binary chunk; external file URIs are rejected.
type gltfBuffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`
	Data       []byte `json:"-"`
}

// gltfGLBHeader is the 12-byte header of a GLB container.
type gltfGLBHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

// gltfGLBChunkHeader precedes each GLB chunk (JSON or binary payload).
type gltfGLBChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32
}

const (
	gltfGLBMagic     = 0x46546C67
	gltfGLBVersion   = 2
	gltfGLBChunkJSON = 0x4E4F534A
	gltfGLBChunkBIN  = 0x004E4942
)
