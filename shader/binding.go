package shader

import (
	"github.com/aedm/bitang/apperr"
	"github.com/aedm/bitang/control"
	"github.com/aedm/bitang/globals"
	"github.com/aedm/bitang/gpu"
)

// ControlBinding maps one LocalUniformMember to the Control supplying its
// values, by declared index into Artifact.LocalUniforms.
type ControlBinding struct {
	MemberIndex int
	Source      *control.Control
}

// PackUniformBuffer writes a's reflected uniform buffer for one draw or
// dispatch: globals at their reflected byte offsets, then each bound
// control's current value at its member's offset. The returned slice has
// length a.UniformBufferSize/4 float32s (0 if the shader declares no
// uniform buffer).
func PackUniformBuffer(a *Artifact, g *globals.Globals, controls []ControlBinding) []float32 {
	if a.UniformBufferSize == 0 {
		return nil
	}
	buf := make([]float32, a.UniformBufferSize/4)

	for _, m := range a.GlobalUniforms {
		src := g.Get(m.Kind)
		copy(buf[m.ByteOffset/4:], src)
	}
	for _, cb := range controls {
		m := a.LocalUniforms[cb.MemberIndex]
		var v []float32
		switch m.F32Count {
		case 1:
			f := cb.Source.AsFloat()
			v = []float32{f}
		case 2:
			vv := cb.Source.AsVec2()
			v = vv[:]
		case 3:
			vv := cb.Source.AsVec3()
			v = vv[:]
		default:
			vv := cb.Source.AsVec4()
			v = vv[:]
		}
		copy(buf[m.ByteOffset/4:], v)
	}
	return buf
}

// DescriptorSetLayoutFor assembles the DescriptorSetLayout for a's fixed
// set index: binding 0 is the uniform buffer (if present), followed by one
// entry per reflected sampler/storage buffer at its reflected binding.
// samplers and buffers must supply one gpu.Sampler/gpu.TextureView or
// gpu.Buffer per reflected name, in reflection order.
func DescriptorSetLayoutFor(a *Artifact, uniformBuffer gpu.Buffer, samplerViews map[string]struct {
	View    gpu.TextureView
	Sampler gpu.Sampler
}, storageBuffers map[string]gpu.Buffer) (gpu.DescriptorSetLayout, error) {
	layout := gpu.DescriptorSetLayout{SetIndex: DescriptorSetIndex(a.Stage)}
	if a.UniformBufferSize > 0 {
		layout.Entries = append(layout.Entries, gpu.DescriptorSetEntry{Binding: 0, Buffer: uniformBuffer})
	}
	for _, s := range a.Samplers {
		sv, ok := samplerViews[s.Name]
		if !ok {
			return layout, apperr.New(apperr.Validate, s.Name, errMissingSamplerBinding)
		}
		layout.Entries = append(layout.Entries, gpu.DescriptorSetEntry{
			Binding: s.Binding, TextureView: sv.View, Sampler: sv.Sampler,
		})
	}
	for _, b := range a.StorageBuffers {
		buf, ok := storageBuffers[b.Name]
		if !ok {
			return layout, apperr.New(apperr.Validate, b.Name, errMissingBufferBinding)
		}
		layout.Entries = append(layout.Entries, gpu.DescriptorSetEntry{Binding: b.Binding, Buffer: buf})
	}
	return layout, nil
}
