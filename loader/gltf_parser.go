package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Errors returned while parsing a glTF/GLB document.
var (
	errInvalidGLTFVersion = errors.New("gltf: invalid version, must be 2.x")
	errInvalidGLBMagic    = errors.New("gltf: invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("gltf: invalid GLB version, must be 2")
	errMissingJSONChunk   = errors.New("gltf: GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("gltf: invalid buffer data URI")
	errBufferSizeMismatch = errors.New("gltf: buffer shorter than byteLength")
)

// gltfParser holds one parsed glTF/GLB document and its buffer contents, so
// a mesh decoder can read typed accessor data out of it by index.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
type gltfParser struct {
	document       *gltfDocument
	glbBinaryChunk []byte
}

// parse detects GLB vs. bare glTF JSON from content's leading magic number
// and parses accordingly.
func (p *gltfParser) parse(content []byte) error {
	if len(content) >= 4 && binary.LittleEndian.Uint32(content[:4]) == gltfGLBMagic {
		return p.parseGLB(content)
	}
	return p.parseGLTF(content)
}

func (p *gltfParser) parseGLTF(data []byte) error {
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("gltf: parse JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("gltf: load buffers: %w", err)
	}
	p.document = &doc
	return nil
}

// parseGLB parses a GLB binary container: a 12-byte header followed by a
// JSON chunk and an optional binary chunk supplying buffer 0's data.
func (p *gltfParser) parseGLB(data []byte) error {
	if len(data) < 12 {
		return errors.New("gltf: GLB file too small")
	}
	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("gltf: read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return errInvalidGLBVersion
	}

	var jsonData, binData []byte
	for {
		var chunkHeader gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunkHeader); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("gltf: read chunk header: %w", err)
		}
		chunkData := make([]byte, chunkHeader.ChunkLength)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return fmt.Errorf("gltf: read chunk data: %w", err)
		}
		switch chunkHeader.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = chunkData
		case gltfGLBChunkBIN:
			binData = chunkData
		}
	}
	if jsonData == nil {
		return errMissingJSONChunk
	}
	p.glbBinaryChunk = binData

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("gltf: parse JSON chunk: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("gltf: load buffers: %w", err)
	}
	p.document = &doc
	return nil
}

// loadBuffers resolves every buffer's Data: buffer 0 with no URI falls back
// to the GLB binary chunk; anything else must be a data: URI (external
// buffer files are out of scope — every mesh this engine loads is a single
// self-contained .glb per §6's on-disk layout).
func (p *gltfParser) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		if buf.URI == "" {
			if i == 0 && p.glbBinaryChunk != nil {
				buf.Data = p.glbBinaryChunk
				if len(buf.Data) < buf.ByteLength {
					return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
				}
				continue
			}
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		}
		data, err := p.loadDataURI(buf.URI)
		if err != nil {
			return fmt.Errorf("buffer %d: %w", i, err)
		}
		buf.Data = data
		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// loadDataURI decodes a base64 data: URI (format:
// data:[<mediatype>][;base64],<data>).
func (p *gltfParser) loadDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, fmt.Errorf("gltf: external buffer URI %q unsupported", uri)
	}
	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, errInvalidBufferURI
	}
	header := uri[5:commaIdx]
	if !strings.Contains(header, "base64") {
		return nil, fmt.Errorf("gltf: unsupported data URI encoding: %s", header)
	}
	data, err := base64.StdEncoding.DecodeString(uri[commaIdx+1:])
	if err != nil {
		return nil, fmt.Errorf("gltf: decode base64: %w", err)
	}
	return data, nil
}

// readAccessorData resolves an accessor's bufferView + byteOffset + stride
// into a tightly packed byte slice, one element after another.
func (p *gltfParser) readAccessorData(accessorIndex int) ([]byte, error) {
	if p.document == nil {
		return nil, errors.New("gltf: no document loaded")
	}
	if accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, fmt.Errorf("gltf: accessor index %d out of range", accessorIndex)
	}
	acc := &p.document.Accessors[accessorIndex]
	if acc.Sparse != nil {
		return nil, errors.New("gltf: sparse accessors not supported")
	}
	if acc.BufferView == nil {
		return nil, errors.New("gltf: accessor has no bufferView")
	}
	bv := &p.document.BufferViews[*acc.BufferView]
	buf := &p.document.Buffers[bv.Buffer]

	componentSize := gltfComponentTypeSize(acc.ComponentType)
	componentCount := gltfAccessorTypeComponentCount(acc.Type)
	elementSize := componentSize * componentCount

	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}
	bufferOffset := bv.ByteOffset + acc.ByteOffset

	result := make([]byte, acc.Count*elementSize)
	for i := 0; i < acc.Count; i++ {
		srcOffset := bufferOffset + i*stride
		dstOffset := i * elementSize
		copy(result[dstOffset:dstOffset+elementSize], buf.Data[srcOffset:srcOffset+elementSize])
	}
	return result, nil
}

func (p *gltfParser) readVec2Accessor(accessorIndex int) ([][2]float32, error) {
	acc := &p.document.Accessors[accessorIndex]
	if acc.Type != gltfAccessorTypeVec2 || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("gltf: accessor %d is not VEC2 FLOAT", accessorIndex)
	}
	data, err := p.readAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}
	result := make([][2]float32, acc.Count)
	r := bytes.NewReader(data)
	for i := 0; i < acc.Count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (p *gltfParser) readVec3Accessor(accessorIndex int) ([][3]float32, error) {
	acc := &p.document.Accessors[accessorIndex]
	if acc.Type != gltfAccessorTypeVec3 || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("gltf: accessor %d is not VEC3 FLOAT", accessorIndex)
	}
	data, err := p.readAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}
	result := make([][3]float32, acc.Count)
	r := bytes.NewReader(data)
	for i := 0; i < acc.Count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (p *gltfParser) readVec4Accessor(accessorIndex int) ([][4]float32, error) {
	acc := &p.document.Accessors[accessorIndex]
	if acc.Type != gltfAccessorTypeVec4 || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("gltf: accessor %d is not VEC4 FLOAT", accessorIndex)
	}
	data, err := p.readAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}
	result := make([][4]float32, acc.Count)
	r := bytes.NewReader(data)
	for i := 0; i < acc.Count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// readIndicesAccessor reads an index accessor, widening UNSIGNED_BYTE and
// UNSIGNED_SHORT component types to uint32.
func (p *gltfParser) readIndicesAccessor(accessorIndex int) ([]uint32, error) {
	acc := &p.document.Accessors[accessorIndex]
	if acc.Type != gltfAccessorTypeScalar {
		return nil, fmt.Errorf("gltf: index accessor %d is not SCALAR", accessorIndex)
	}
	data, err := p.readAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}
	result := make([]uint32, acc.Count)
	r := bytes.NewReader(data)
	switch acc.ComponentType {
	case gltfComponentTypeUnsignedByte:
		for i := 0; i < acc.Count; i++ {
			var v uint8
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			result[i] = uint32(v)
		}
	case gltfComponentTypeUnsignedShort:
		for i := 0; i < acc.Count; i++ {
			var v uint16
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			result[i] = uint32(v)
		}
	case gltfComponentTypeUnsignedInt:
		if err := binary.Read(r, binary.LittleEndian, &result); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("gltf: unsupported index component type %d", acc.ComponentType)
	}
	return result, nil
}

func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	default:
		return 0
	}
}
