package loader

import (
	"fmt"

	"github.com/aedm/bitang/image"
)

// GLTFMeshDecoder decodes a .glb (or bare glTF JSON) file's geometry into
// this engine's fixed Vertex layout, concatenating every primitive of every
// mesh in the document into one combined vertex/index buffer — a chart
// item references a mesh by a single id (§3 Mesh), not a primitive list, so
// a multi-primitive source model becomes one draw's worth of geometry.
// Adapted from the teacher's glTF importer (engine/loader/gltf_parser.go,
// gltf_mesh_extractor.go), trimmed to the static POSITION/NORMAL/TANGENT/
// TEXCOORD_0 attributes this engine's Vertex actually carries — no
// skinning, morph targets, or materials.
type GLTFMeshDecoder struct{}

var _ MeshDecoder = GLTFMeshDecoder{}

func (GLTFMeshDecoder) Decode(path string, content []byte) ([]image.Vertex, []uint32, error) {
	var p gltfParser
	if err := p.parse(content); err != nil {
		return nil, nil, fmt.Errorf("gltf: %s: %w", path, err)
	}
	doc := p.document

	var vertices []image.Vertex
	var indices []uint32
	for mi := range doc.Meshes {
		for pi := range doc.Meshes[mi].Primitives {
			prim := &doc.Meshes[mi].Primitives[pi]
			if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
				continue
			}
			pv, pidx, err := p.extractPrimitive(prim)
			if err != nil {
				return nil, nil, fmt.Errorf("gltf: %s: mesh %d primitive %d: %w", path, mi, pi, err)
			}
			base := uint32(len(vertices))
			vertices = append(vertices, pv...)
			for _, idx := range pidx {
				indices = append(indices, base+idx)
			}
		}
	}
	if len(vertices) == 0 {
		return nil, nil, fmt.Errorf("gltf: %s: no triangle primitives found", path)
	}
	return vertices, indices, nil
}

// extractPrimitive reads one primitive's attributes into the engine
// Vertex layout. Normals, tangents and UVs default to zero when the
// primitive doesn't supply them; a zero normal/tangent is visibly wrong in
// a lit shader, which is the point — it flags a mesh export that's missing
// data rather than silently guessing a face normal.
func (p *gltfParser) extractPrimitive(prim *gltfPrimitive) ([]image.Vertex, []uint32, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := p.readVec3Accessor(posIdx)
	if err != nil {
		return nil, nil, fmt.Errorf("read positions: %w", err)
	}

	vertices := make([]image.Vertex, len(positions))
	for i, pos := range positions {
		vertices[i].Position = pos
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := p.readVec3Accessor(idx)
		if err != nil {
			return nil, nil, fmt.Errorf("read normals: %w", err)
		}
		for i := range vertices {
			if i < len(normals) {
				vertices[i].Normal = normals[i]
			}
		}
	}

	if idx, ok := prim.Attributes["TANGENT"]; ok {
		tangents, err := p.readVec4Accessor(idx)
		if err != nil {
			return nil, nil, fmt.Errorf("read tangents: %w", err)
		}
		for i := range vertices {
			if i < len(tangents) {
				vertices[i].Tangent = [3]float32{tangents[i][0], tangents[i][1], tangents[i][2]}
			}
		}
	}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := p.readVec2Accessor(idx)
		if err != nil {
			return nil, nil, fmt.Errorf("read UVs: %w", err)
		}
		for i := range vertices {
			if i < len(uvs) {
				vertices[i].UV = uvs[i]
			}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = p.readIndicesAccessor(*prim.Indices)
		if err != nil {
			return nil, nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	return vertices, indices, nil
}
