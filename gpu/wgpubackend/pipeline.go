package wgpubackend

import (
	"fmt"

	"github.com/aedm/bitang/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// RenderPipeline wraps a wgpu.RenderPipeline.
type RenderPipeline struct {
	pipeline *wgpu.RenderPipeline
}

func (p *RenderPipeline) Release() { p.pipeline.Release() }

// ComputePipeline wraps a wgpu.ComputePipeline.
type ComputePipeline struct {
	pipeline *wgpu.ComputePipeline
}

func (p *ComputePipeline) Release() { p.pipeline.Release() }

// DescriptorSet wraps a wgpu.BindGroup. index is the set index it was
// created for (0 for vertex/compute stage inputs, 1 for fragment stage
// inputs), used when binding it to a pass.
type DescriptorSet struct {
	group *wgpu.BindGroup
	index uint32
}

func (s *DescriptorSet) Release() { s.group.Release() }

func (d *Device) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	targets := make([]wgpu.ColorTargetState, len(desc.ColorFormats))
	for i, f := range desc.ColorFormats {
		targets[i] = wgpu.ColorTargetState{
			Format:    toWGPUFormat(f),
			Blend:     toWGPUBlend(desc.Blend),
			WriteMask: wgpu.ColorWriteMaskAll,
		}
	}

	rpd := &wgpu.RenderPipelineDescriptor{
		Vertex: wgpu.VertexState{
			Module:     desc.VertexShader.(*ShaderModule).module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     desc.FragmentShader.(*ShaderModule).module,
			EntryPoint: "fs_main",
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
	}
	if desc.DepthFormat != nil {
		rpd.DepthStencil = &wgpu.DepthStencilState{
			Format:            toWGPUFormat(*desc.DepthFormat),
			DepthWriteEnabled: desc.DepthWrite,
			DepthCompare:      depthCompare(desc.DepthTest),
		}
	}

	p, err := d.device.CreateRenderPipeline(rpd)
	if err != nil {
		return nil, fmt.Errorf("gpu: create render pipeline: %w", err)
	}
	return &RenderPipeline{pipeline: p}, nil
}

func (d *Device) CreateComputePipeline(desc gpu.ComputePipelineDescriptor) (gpu.ComputePipeline, error) {
	p, err := d.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     desc.Shader.(*ShaderModule).module,
			EntryPoint: "cs_main",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create compute pipeline: %w", err)
	}
	return &ComputePipeline{pipeline: p}, nil
}

func (d *Device) CreateDescriptorSet(layout gpu.DescriptorSetLayout) (gpu.DescriptorSet, error) {
	entries := make([]wgpu.BindGroupEntry, 0, len(layout.Entries))
	for _, e := range layout.Entries {
		switch {
		case e.Buffer != nil:
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: e.Binding,
				Buffer:  e.Buffer.(*Buffer).Raw(),
				Size:    e.Buffer.(*Buffer).Size(),
			})
		case e.Sampler != nil:
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: e.Binding,
				Sampler: e.Sampler.(*Sampler).sampler,
			})
		case e.TextureView != nil:
			entries = append(entries, wgpu.BindGroupEntry{
				Binding:     e.Binding,
				TextureView: e.TextureView.(*TextureView).Raw(),
			})
		}
	}
	g, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{Entries: entries})
	if err != nil {
		return nil, fmt.Errorf("gpu: create descriptor set: %w", err)
	}
	return &DescriptorSet{group: g, index: layout.SetIndex}, nil
}

func toWGPUBlend(mode gpu.PipelineBlendMode) *wgpu.BlendState {
	switch mode {
	case gpu.BlendAlpha:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd},
			Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd},
		}
	case gpu.BlendAdditive:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
			Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
		}
	default:
		return nil
	}
}

func depthCompare(enabled bool) wgpu.CompareFunction {
	if enabled {
		return wgpu.CompareFunctionLess
	}
	return wgpu.CompareFunctionAlways
}
