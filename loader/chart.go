package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aedm/bitang/apperr"
	"github.com/aedm/bitang/camera"
	"github.com/aedm/bitang/control"
	"github.com/aedm/bitang/descriptor"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/image"
	"github.com/aedm/bitang/render"
	"github.com/aedm/bitang/shader"
	"github.com/aedm/bitang/steps"
	"golang.org/x/sync/errgroup"
)

// LoadChart loads (or returns the already-cached) chart at
// charts/<chartID>/chart.ron, deduplicated within the current load cycle.
func (l *Loader) LoadChart(ctx context.Context, chartID string) (*render.Chart, error) {
	chart, err := l.chartCache.Get(ctx, chartID, func(ctx context.Context) (*render.Chart, error) {
		c, err := l.loadChart(ctx, chartID)
		if err != nil {
			return nil, apperr.WithContext(err, chartID)
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return chart, nil
}

func (l *Loader) chartRel(chartID string, parts ...string) string {
	return filepath.Join(append([]string{"charts", chartID}, parts...)...)
}

func (l *Loader) loadChart(ctx context.Context, chartID string) (*render.Chart, error) {
	src, err := l.readFile(ctx, l.chartRel(chartID, "chart.ron"))
	if err != nil {
		return nil, err
	}
	desc, err := descriptor.DecodeChart(l.chartRel(chartID, "chart.ron"), string(src.Content))
	if err != nil {
		return nil, err
	}

	rootID := control.NewId(control.Part{Kind: control.Chart, Name: chartID})
	if err := l.loadControls(ctx, chartID); err != nil {
		return nil, err
	}
	builder := control.NewBuilder(rootID, l.Repo)

	cam := buildCamera(rootID, builder)

	imagesByID := make(map[string]*image.Image, len(desc.Images))
	var images []*image.Image
	for _, imgDesc := range desc.Images {
		img := image.NewAttachment(imgDesc.ID, l.Device, imgDesc.Format, imgDesc.SizeRule, imgDesc.HasMipmaps)
		imagesByID[imgDesc.ID] = img
		images = append(images, img)
	}
	imagesByID["Screen"] = l.screen()

	buffersByID := make(map[string]*image.DoubleBuffer, len(desc.Buffers))
	bufferItemCounts := make(map[string]uint32, len(desc.Buffers))
	for _, bufDesc := range desc.Buffers {
		buf, err := image.NewDoubleBuffer(bufDesc.ID, l.Device, uint64(bufDesc.ItemCount)*uint64(bufDesc.ItemBytes))
		if err != nil {
			return nil, err
		}
		buffersByID[bufDesc.ID] = buf
		bufferItemCounts[bufDesc.ID] = bufDesc.ItemCount
	}

	stepIDs := make([]string, len(desc.Steps))
	for i, s := range desc.Steps {
		stepIDs[i] = s.ID
	}

	rs := &chartLoadState{
		loader:           l,
		chartID:          chartID,
		rootID:           rootID,
		builder:          builder,
		imagesByID:       imagesByID,
		buffersByID:      buffersByID,
		bufferItemCounts: bufferItemCounts,
	}

	steps_ := make([]render.Step, len(desc.Steps))
	g, gctx := errgroup.WithContext(ctx)
	for i, stepDesc := range desc.Steps {
		i, stepDesc := i, stepDesc
		g.Go(func() error {
			step, err := rs.loadStep(gctx, stepDesc)
			if err != nil {
				return apperr.WithContext(err, stepDesc.ID)
			}
			steps_[i] = step
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	controlSet := builder.Build(stepIDs)
	return render.NewChart(chartID, controlSet, cam, images, steps_, desc.SimulationPrecalculationTime), nil
}

// loadControls imports charts/<chartID>/controls.ron into the control
// repository, if present, so GetFloat/GetVec2/... calls made while loading
// the chart's steps find already-persisted values and splines instead of
// the step's own hardcoded default (§3, §8 round-trip property). A missing
// controls.ron is not an error — every chart has none on its first run —
// so this reads the file directly rather than through the content-hash file
// cache, which would otherwise flag a legitimately absent file as a missing
// asset and drive the project loader's retry loop.
func (l *Loader) loadControls(ctx context.Context, chartID string) error {
	path := l.abs(l.chartRel(chartID, "controls.ron"))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apperr.New(apperr.IO, path, err)
	}
	stored, err := control.DecodeControls(path, string(data))
	if err != nil {
		return err
	}
	control.ImportInto(l.Repo, chartID, stored)
	return nil
}

// SaveControls serializes every control belonging to chartID back to
// charts/<chartID>/controls.ron (§6, the engine-side "save parameters"
// hotkey).
func (l *Loader) SaveControls(chartID string) error {
	path := l.abs(l.chartRel(chartID, "controls.ron"))
	content := control.EncodeControls(l.Repo.ControlsForChart(chartID))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return apperr.New(apperr.IO, path, err)
	}
	return nil
}

// screen lazily creates the Loader's shared swapchain image, the target
// every chart's "Screen" pass/texture references resolve to.
func (l *Loader) screen() *image.Image {
	if l.screenImage == nil {
		l.screenImage = image.NewSwapchain("Screen")
	}
	return l.screenImage
}

// ScreenImage returns the Loader's shared swapchain image, the same
// instance every loaded chart's "Screen" references resolve to. cmd/bitang
// calls SetSwapchainImageView on it once per frame before rendering, live
// mode with the acquired swapchain view and frame-dump mode with a view
// into its owned dump attachment.
func (l *Loader) ScreenImage() *image.Image {
	return l.screen()
}

// buildCamera creates the seven fixed-name controls every chart's camera rig
// is driven by, rooted at rootID's Camera part.
func buildCamera(rootID control.Id, builder *control.Builder) camera.Camera {
	camID := func(name string) control.Id { return rootID.Add(control.Camera, name) }
	return camera.NewCamera(camera.WithControls(
		builder.GetVec3(camID("target"), [3]float32{0, 0, 0}),
		builder.GetVec3(camID("orientation"), [3]float32{0, 0, 0}),
		builder.GetFloat(camID("distance"), 10),
		builder.GetFloat(camID("fov"), 60),
		builder.GetVec4(camID("shake"), [4]float32{0, 0, 0, 0}),
		builder.GetFloat(camID("speed"), 1),
		builder.GetFloat(camID("time_adjustment"), 0),
	))
}

// chartLoadState carries the per-chart context step loading needs: the
// control builder, the chart's image/buffer pools, and the loader itself for
// cross-chart-shared caches (materials, meshes, textures, shaders).
type chartLoadState struct {
	loader  *Loader
	chartID string
	rootID  control.Id
	builder *control.Builder

	imagesByID       map[string]*image.Image
	buffersByID      map[string]*image.DoubleBuffer
	bufferItemCounts map[string]uint32
}

func (rs *chartLoadState) loadStep(ctx context.Context, desc descriptor.Step) (render.Step, error) {
	switch desc.Kind {
	case descriptor.StepDraw:
		d, err := rs.loadDrawStep(ctx, desc)
		if err != nil {
			return render.Step{}, err
		}
		return render.Step{Kind: render.StepDraw, Draw: d}, nil
	case descriptor.StepCompute:
		c, err := rs.loadComputeStep(ctx, desc)
		if err != nil {
			return render.Step{}, err
		}
		return render.Step{Kind: render.StepCompute, Compute: c}, nil
	case descriptor.StepGenerateMipLevels:
		m, err := rs.loadMipmapStep(ctx, desc)
		if err != nil {
			return render.Step{}, err
		}
		return render.Step{Kind: render.StepMipmap, Mipmap: m}, nil
	default:
		return render.Step{}, apperr.New(apperr.Validate, desc.ID, fmt.Errorf("unknown step kind %d", desc.Kind))
	}
}

func (rs *chartLoadState) image(id string) (*image.Image, error) {
	img, ok := rs.imagesByID[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, id, fmt.Errorf("chart %q: no image %q", rs.chartID, id))
	}
	return img, nil
}

func (rs *chartLoadState) loadMipmapStep(ctx context.Context, desc descriptor.Step) (*steps.Mipmap, error) {
	img, err := rs.image(desc.MipmapImageID)
	if err != nil {
		return nil, err
	}
	// The image's backing texture isn't allocated until the first
	// EnforceSizeRule call against a real canvas, so the descriptor-set
	// count is precomputed against the rule resolved at a nominal 1080p
	// canvas; EnforceSizeRule only ever grows or shrinks within that same
	// power-of-two chain for the sizes this engine actually targets.
	nominalW, nominalH := img.SizeRule.Resolve(1920, 1080)
	levels := image.MipLevelCount(nominalW, nominalH, true)

	artifact, err := rs.loader.Shaders.Compile(gpu.StageFragment, "shaders/blit.frag", nil)
	if err != nil {
		return nil, err
	}
	vsArtifact, err := rs.loader.Shaders.Compile(gpu.StageVertex, "shaders/blit.vert", nil)
	if err != nil {
		return nil, err
	}
	pipeline, err := rs.loader.Device.CreateRenderPipeline(gpu.RenderPipelineDescriptor{
		VertexShader: vsArtifact.Module, FragmentShader: artifact.Module,
		ColorFormats: []gpu.PixelFormat{img.Format},
	})
	if err != nil {
		return nil, apperr.New(apperr.GPU, desc.ID, err)
	}

	sampler, err := rs.loader.Device.CreateSampler(gpu.ClampToEdge)
	if err != nil {
		return nil, apperr.New(apperr.GPU, desc.ID, err)
	}

	var sets []gpu.DescriptorSet
	for level := uint32(1); level < levels; level++ {
		srcView, err := img.ViewMipLevel(level - 1)
		if err != nil {
			return nil, err
		}
		layout, err := shader.DescriptorSetLayoutFor(artifact, nil, map[string]struct {
			View    gpu.TextureView
			Sampler gpu.Sampler
		}{"src": {View: srcView, Sampler: sampler}}, nil)
		if err != nil {
			return nil, err
		}
		set, err := rs.loader.Device.CreateDescriptorSet(layout)
		if err != nil {
			return nil, apperr.New(apperr.GPU, desc.ID, err)
		}
		sets = append(sets, set)
	}

	return &steps.Mipmap{ID: desc.ID, Image: img, Pipeline: pipeline, DescriptorSets: sets}, nil
}

func (rs *chartLoadState) loadComputeStep(ctx context.Context, desc descriptor.Step) (*steps.Compute, error) {
	c := desc.Compute
	buf, ok := rs.buffersByID[c.BufferID]
	if !ok {
		return nil, apperr.New(apperr.NotFound, c.BufferID, fmt.Errorf("compute step %q: no buffer %q", desc.ID, c.BufferID))
	}

	macros := computeMacros(c)
	artifact, err := rs.loader.Shaders.Compile(gpu.StageCompute, c.Shader, macros)
	if err != nil {
		return nil, err
	}

	uniformBuffer, controlBindings, err := rs.loader.bindUniforms(rs.builder, rs.rootID, artifact, c.ControlMap)
	if err != nil {
		return nil, err
	}

	storageBuffers := map[string]gpu.Buffer{}
	for name, binding := range c.Buffers {
		bb, ok := rs.buffersByID[binding.BufferID]
		if !ok {
			return nil, apperr.New(apperr.NotFound, binding.BufferID, fmt.Errorf("compute step %q: no buffer %q", desc.ID, binding.BufferID))
		}
		storageBuffers[name+"_current"] = bb.CurrentBinding()
		storageBuffers[name+"_next"] = bb.NextBinding()
	}

	samplerViews, err := rs.samplerViews(c.Textures)
	if err != nil {
		return nil, err
	}

	pipeline, err := rs.loader.Device.CreateComputePipeline(gpu.ComputePipelineDescriptor{Shader: artifact.Module})
	if err != nil {
		return nil, apperr.New(apperr.GPU, desc.ID, err)
	}

	var sets [2]gpu.DescriptorSet
	for parity := 0; parity < 2; parity++ {
		layout, err := shader.DescriptorSetLayoutFor(artifact, uniformBuffer, samplerViews, storageBuffers)
		if err != nil {
			return nil, err
		}
		set, err := rs.loader.Device.CreateDescriptorSet(layout)
		if err != nil {
			return nil, apperr.New(apperr.GPU, desc.ID, err)
		}
		sets[parity] = set
	}

	return &steps.Compute{
		ID: desc.ID, ItemCount: rs.bufferItemCounts[c.BufferID], Run: stepsRunKind(c.Run),
		Buffer: buf, Artifact: artifact, UniformBuffer: uniformBuffer, Controls: controlBindings,
		Pipeline: pipeline, DescriptorSets: sets,
	}, nil
}

func stepsRunKind(r descriptor.RunKind) steps.RunKind {
	if r == descriptor.RunInit {
		return steps.RunInit
	}
	return steps.RunSimulate
}

func computeMacros(c *descriptor.Compute) []shader.Macro {
	var macros []shader.Macro
	for name := range c.Textures {
		macros = append(macros, shader.Macro{Name: "IMAGE_BOUND_TO_SAMPLER_" + name, Value: "1"})
	}
	return macros
}

func (rs *chartLoadState) samplerViews(textures map[string]string) (map[string]struct {
	View    gpu.TextureView
	Sampler gpu.Sampler
}, error) {
	out := map[string]struct {
		View    gpu.TextureView
		Sampler gpu.Sampler
	}{}
	for name, imgID := range textures {
		img, err := rs.image(imgID)
		if err != nil {
			return nil, err
		}
		view, err := img.ViewAsSampler()
		if err != nil {
			return nil, err
		}
		sampler, err := rs.loader.Device.CreateSampler(gpu.Repeat)
		if err != nil {
			return nil, apperr.New(apperr.GPU, imgID, err)
		}
		out[name] = struct {
			View    gpu.TextureView
			Sampler gpu.Sampler
		}{View: view, Sampler: sampler}
	}
	return out, nil
}

func (rs *chartLoadState) loadDrawStep(ctx context.Context, desc descriptor.Step) (*steps.Draw, error) {
	d := desc.Draw

	passes := make([]steps.Pass, len(d.Passes))
	for i, p := range d.Passes {
		sp := steps.Pass{ID: p.ID, HasClearColor: p.HasClearColor, ClearColor: p.ClearColor}
		for _, id := range p.ColorImageIDs {
			img, err := rs.image(id)
			if err != nil {
				return nil, err
			}
			sp.ColorTargets = append(sp.ColorTargets, img)
		}
		if p.DepthImageID != "" {
			img, err := rs.image(p.DepthImageID)
			if err != nil {
				return nil, err
			}
			sp.DepthTarget = img
		}
		passes[i] = sp
	}

	items := make([]*steps.Item, len(d.Items))
	g, gctx := errgroup.WithContext(ctx)
	for i, itemDesc := range d.Items {
		i, itemDesc := i, itemDesc
		g.Go(func() error {
			item, err := rs.loadItem(gctx, desc.ID, itemDesc)
			if err != nil {
				return apperr.WithContext(err, itemDesc.ID)
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &steps.Draw{ID: desc.ID, Passes: passes, Items: items}, nil
}

func (rs *chartLoadState) loadItem(ctx context.Context, drawStepID string, desc descriptor.Item) (*steps.Item, error) {
	var mesh *image.Mesh
	var material *steps.Material
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := rs.loader.loadMesh(gctx, desc.MeshID)
		if err != nil {
			return err
		}
		mesh = m
		return nil
	})
	g.Go(func() error {
		m, err := rs.loadMaterial(gctx, desc.MaterialID)
		if err != nil {
			return err
		}
		material = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	objID := rs.rootID.Add(control.ChartStep, drawStepID).Add(control.Object, desc.ID)
	return &steps.Item{
		ID:       desc.ID,
		Mesh:     mesh,
		Material: material,
		Position: rs.builder.GetVec3(objID.Add(control.Value, "position"), [3]float32{0, 0, 0}),
		Rotation: rs.builder.GetVec3(objID.Add(control.Value, "rotation"), [3]float32{0, 0, 0}),
		Instances: rs.builder.GetFloat(objID.Add(control.Value, "instances"), desc.Instances),
	}, nil
}
