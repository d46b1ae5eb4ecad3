package loader

import "github.com/aedm/bitang/common"

// StdTextureDecoder decodes PNG/JPEG textures via the standard library's
// image package, the same decode path common.ImportedTexture.Decode uses
// for imported-model textures. The package's MeshDecoder implementation is
// GLTFMeshDecoder (gltf_mesh_decoder.go).
type StdTextureDecoder struct{}

func (StdTextureDecoder) Decode(path string, content []byte) ([]byte, uint32, uint32, error) {
	t := &common.ImportedTexture{Name: path, Data: content}
	return t.Decode()
}

var _ TextureDecoder = StdTextureDecoder{}
