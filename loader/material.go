package loader

import (
	"context"

	"github.com/aedm/bitang/apperr"
	"github.com/aedm/bitang/descriptor"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/image"
	"github.com/aedm/bitang/shader"
	"github.com/aedm/bitang/steps"
)

// loadMaterial loads (or returns the already-cached) material at
// materialID, deduplicated across every chart within the current load
// cycle. The control bindings its shaders' local uniforms resolve to are
// rooted at whichever chart first triggers the load.
func (rs *chartLoadState) loadMaterial(ctx context.Context, materialID string) (*steps.Material, error) {
	return rs.loader.materialCache.Get(ctx, materialID, func(ctx context.Context) (*steps.Material, error) {
		m, err := rs.compileMaterial(ctx, materialID)
		if err != nil {
			return nil, apperr.WithContext(err, materialID)
		}
		return m, nil
	})
}

func (rs *chartLoadState) compileMaterial(ctx context.Context, materialID string) (*steps.Material, error) {
	src, err := rs.loader.readFile(ctx, materialID)
	if err != nil {
		return nil, err
	}
	desc, err := descriptor.DecodeMaterial(materialID, string(src.Content))
	if err != nil {
		return nil, err
	}

	samplerViews, err := rs.samplerViews(desc.Textures)
	if err != nil {
		return nil, err
	}
	storageBuffers := map[string]gpu.Buffer{}
	for name, binding := range desc.Buffers {
		buf, ok := rs.buffersByID[binding.BufferID]
		if !ok {
			continue
		}
		if binding.Side == descriptor.BufferNext {
			storageBuffers[name] = buf.NextBinding()
		} else {
			storageBuffers[name] = buf.CurrentBinding()
		}
	}

	macros := materialMacros(desc)

	m := &steps.Material{Passes: map[string]*steps.MaterialPass{}}
	for passID, passDesc := range desc.Passes {
		mp, err := rs.compileMaterialPass(passDesc, macros, samplerViews, storageBuffers)
		if err != nil {
			return nil, apperr.WithContext(err, passID)
		}
		m.Passes[passID] = mp
	}
	return m, nil
}

func materialMacros(desc *descriptor.Material) []shader.Macro {
	var macros []shader.Macro
	for name := range desc.Textures {
		macros = append(macros, shader.Macro{Name: "IMAGE_BOUND_TO_SAMPLER_" + name, Value: "1"})
	}
	return macros
}

func (rs *chartLoadState) compileMaterialPass(passDesc descriptor.MaterialPass, macros []shader.Macro, samplerViews map[string]struct {
	View    gpu.TextureView
	Sampler gpu.Sampler
}, storageBuffers map[string]gpu.Buffer) (*steps.MaterialPass, error) {
	vsArtifact, err := rs.loader.Shaders.Compile(gpu.StageVertex, passDesc.VertexShader, macros)
	if err != nil {
		return nil, err
	}
	fsArtifact, err := rs.loader.Shaders.Compile(gpu.StageFragment, passDesc.FragmentShader, macros)
	if err != nil {
		return nil, err
	}

	vsBuffer, vsBindings, err := rs.loader.bindUniforms(rs.builder, rs.rootID, vsArtifact, nil)
	if err != nil {
		return nil, err
	}
	fsBuffer, fsBindings, err := rs.loader.bindUniforms(rs.builder, rs.rootID, fsArtifact, nil)
	if err != nil {
		return nil, err
	}

	vsLayout, err := shader.DescriptorSetLayoutFor(vsArtifact, vsBuffer, samplerViews, storageBuffers)
	if err != nil {
		return nil, err
	}
	fsLayout, err := shader.DescriptorSetLayoutFor(fsArtifact, fsBuffer, samplerViews, storageBuffers)
	if err != nil {
		return nil, err
	}
	vsSet, err := rs.loader.Device.CreateDescriptorSet(vsLayout)
	if err != nil {
		return nil, apperr.New(apperr.GPU, passDesc.VertexShader, err)
	}
	fsSet, err := rs.loader.Device.CreateDescriptorSet(fsLayout)
	if err != nil {
		return nil, apperr.New(apperr.GPU, passDesc.FragmentShader, err)
	}

	var depthFormat *gpu.PixelFormat
	if passDesc.DepthTest || passDesc.DepthWrite {
		df := gpu.Depth32F
		depthFormat = &df
	}
	pipeline, err := rs.loader.Device.CreateRenderPipeline(gpu.RenderPipelineDescriptor{
		VertexShader: vsArtifact.Module, FragmentShader: fsArtifact.Module,
		DepthFormat: depthFormat, Blend: passDesc.Blend,
		DepthTest: passDesc.DepthTest, DepthWrite: passDesc.DepthWrite,
	})
	if err != nil {
		return nil, apperr.New(apperr.GPU, passDesc.VertexShader, err)
	}

	return &steps.MaterialPass{
		Pipeline: pipeline,
		VertexArtifact: vsArtifact, FragmentArtifact: fsArtifact,
		VertexSet: vsSet, FragmentSet: fsSet,
		VertexUniformBuffer: vsBuffer, FragmentUniformBuffer: fsBuffer,
		VertexControls: vsBindings, FragmentControls: fsBindings,
	}, nil
}

// loadMesh loads (or returns the already-cached) mesh at meshID, shared
// across every chart and material that references it.
func (l *Loader) loadMesh(ctx context.Context, meshID string) (*image.Mesh, error) {
	return l.meshCache.Get(ctx, meshID, func(ctx context.Context) (*image.Mesh, error) {
		f, err := l.readFile(ctx, meshID)
		if err != nil {
			return nil, err
		}
		vertices, indices, err := l.Meshes.Decode(meshID, f.Content)
		if err != nil {
			return nil, apperr.New(apperr.Parse, meshID, err)
		}
		mesh, err := image.NewMesh(meshID, l.Device, vertices, indices)
		if err != nil {
			return nil, apperr.WithContext(err, meshID)
		}
		return mesh, nil
	})
}

// loadTexture loads (or returns the already-cached) texture at textureID, a
// file decoded to RGBA8 and uploaded into a fully-mipmapped immutable
// image. A chart's own declared render-target images are not loaded
// through it.
func (l *Loader) loadTexture(ctx context.Context, textureID string) (*image.Image, error) {
	return l.textureCache.Get(ctx, textureID, func(ctx context.Context) (*image.Image, error) {
		f, err := l.readFile(ctx, textureID)
		if err != nil {
			return nil, err
		}
		pixels, w, h, err := l.Textures.Decode(textureID, f.Content)
		if err != nil {
			return nil, apperr.New(apperr.Parse, textureID, err)
		}
		img, err := image.NewImmutable(textureID, l.Device, gpu.Rgba8Srgb, w, h, true)
		if err != nil {
			return nil, apperr.WithContext(err, textureID)
		}
		img.WritePixels(pixels)
		return img, nil
	})
}
