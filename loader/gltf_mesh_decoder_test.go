package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleGLTF is a single-triangle glTF document with one embedded
// base64 buffer: 3 VEC3 FLOAT positions followed by 3 UNSIGNED_SHORT
// indices, no NORMAL/TANGENT/TEXCOORD_0 attributes.
const triangleGLTF = `{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": 42, "uri": "data:application/octet-stream;base64,AAAAAAAAAAAAAAAAAACAPwAAAAAAAAAAAAAAAAAAgD8AAAAAAAABAAIA"}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}]
}`

func TestGLTFMeshDecoder_Triangle(t *testing.T) {
	vertices, indices, err := GLTFMeshDecoder{}.Decode("triangle.gltf", []byte(triangleGLTF))
	require.NoError(t, err)
	require.Len(t, vertices, 3)
	assert.Equal(t, [3]float32{0, 0, 0}, vertices[0].Position)
	assert.Equal(t, [3]float32{1, 0, 0}, vertices[1].Position)
	assert.Equal(t, [3]float32{0, 1, 0}, vertices[2].Position)
	assert.Equal(t, []uint32{0, 1, 2}, indices)
	// Attributes the document doesn't supply stay zero rather than guessed.
	assert.Equal(t, [3]float32{}, vertices[0].Normal)
}

func TestGLTFMeshDecoder_RejectsEmptyDocument(t *testing.T) {
	_, _, err := GLTFMeshDecoder{}.Decode("empty.gltf", []byte(`{"asset":{"version":"2.0"}}`))
	assert.Error(t, err)
}

func TestGLTFMeshDecoder_MultiplePrimitivesConcatenateWithOffsetIndices(t *testing.T) {
	doc := `{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": 42, "uri": "data:application/octet-stream;base64,AAAAAAAAAAAAAAAAAACAPwAAAAAAAAAAAAAAAAAAgD8AAAAAAAABAAIA"}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "meshes": [
    {"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]},
    {"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}
  ]
}`
	vertices, indices, err := GLTFMeshDecoder{}.Decode("two.gltf", []byte(doc))
	require.NoError(t, err)
	require.Len(t, vertices, 6)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, indices)
}
