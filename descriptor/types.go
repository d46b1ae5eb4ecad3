package descriptor

import (
	"fmt"

	"github.com/aedm/bitang/apperr"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/image"
)

// Project is the parsed project.ron: a timeline of cuts.
type Project struct {
	Cuts []Cut
}

// Cut maps a region of the project timeline onto a chart.
type Cut struct {
	Chart     string
	StartTime float32
	EndTime   float32
	Offset    float32
}

// DecodeProject parses a project.ron document.
func DecodeProject(path, src string) (*Project, error) {
	root, err := Parse(path, src)
	if err != nil {
		return nil, err
	}
	cutsField, ok := root.Field("cuts")
	if !ok {
		return nil, apperr.New(apperr.Parse, path, fmt.Errorf("project: missing 'cuts'"))
	}
	proj := &Project{}
	for _, c := range cutsField.AsSeq() {
		proj.Cuts = append(proj.Cuts, Cut{
			Chart:     c.FieldString("chart", ""),
			StartTime: c.FieldFloat32("start_time", 0),
			EndTime:   c.FieldFloat32("end_time", 0),
			Offset:    c.FieldFloat32("offset", 0),
		})
	}
	return proj, nil
}

// Length returns the latest end_time across every cut.
func (p *Project) Length() float32 {
	var max float32
	for _, c := range p.Cuts {
		if c.EndTime > max {
			max = c.EndTime
		}
	}
	return max
}

// Image is the parsed descriptor for one chart-owned image.
type Image struct {
	ID         string
	SizeRule   image.SizeRule
	Format     gpu.PixelFormat
	HasMipmaps bool
}

// DoubleBuffer is the parsed descriptor for one chart-owned double buffer.
type DoubleBuffer struct {
	ID        string
	ItemCount uint32
	ItemBytes uint32
}

// Chart is the parsed chart.ron: images, double buffers, and an ordered
// step list.
type Chart struct {
	Images                     []Image
	Buffers                    []DoubleBuffer
	SimulationPrecalculationTime float32
	Steps                      []Step
}

// DecodeChart parses a chart.ron document.
func DecodeChart(path, src string) (*Chart, error) {
	root, err := Parse(path, src)
	if err != nil {
		return nil, err
	}
	chart := &Chart{
		SimulationPrecalculationTime: root.FieldFloat32("simulation_precalculation_time", 0),
	}
	if f, ok := root.Field("images"); ok {
		for _, v := range f.AsSeq() {
			img, err := decodeImage(path, v)
			if err != nil {
				return nil, err
			}
			chart.Images = append(chart.Images, img)
		}
	}
	if f, ok := root.Field("buffers"); ok {
		for _, v := range f.AsSeq() {
			chart.Buffers = append(chart.Buffers, DoubleBuffer{
				ID:        v.FieldString("id", ""),
				ItemCount: uint32(v.FieldFloat32("item_count", 0)),
				ItemBytes: uint32(v.FieldFloat32("item_bytes", 0)),
			})
		}
	}
	if f, ok := root.Field("steps"); ok {
		for _, v := range f.AsSeq() {
			step, err := decodeStep(path, v)
			if err != nil {
				return nil, err
			}
			chart.Steps = append(chart.Steps, step)
		}
	}
	return chart, nil
}

func decodeImage(path string, v Value) (Image, error) {
	id := v.FieldString("id", "")
	format, err := decodeFormat(path, id, v.FieldString("format", "Rgba8Srgb"))
	if err != nil {
		return Image{}, err
	}
	sizeVal, _ := v.Field("size")
	rule, err := decodeSizeRule(path, id, sizeVal)
	if err != nil {
		return Image{}, err
	}
	return Image{ID: id, Format: format, SizeRule: rule, HasMipmaps: v.FieldBool("has_mipmaps", false)}, nil
}

func decodeFormat(path, id, name string) (gpu.PixelFormat, error) {
	switch name {
	case "Rgba16F":
		return gpu.Rgba16F, nil
	case "Rgba32F":
		return gpu.Rgba32F, nil
	case "Depth32F":
		return gpu.Depth32F, nil
	case "Rgba8U":
		return gpu.Rgba8U, nil
	case "Rgba8Srgb":
		return gpu.Rgba8Srgb, nil
	case "Bgra8Srgb":
		return gpu.Bgra8Srgb, nil
	case "Bgra8Unorm":
		return gpu.Bgra8Unorm, nil
	default:
		return 0, apperr.New(apperr.Parse, path, fmt.Errorf("image %q: unknown format %q", id, name))
	}
}

func decodeSizeRule(path, id string, v Value) (image.SizeRule, error) {
	switch v.VariantName() {
	case "Fixed":
		items := v.AsSeq()
		if len(items) != 2 {
			return image.SizeRule{}, apperr.New(apperr.Parse, path, fmt.Errorf("image %q: Fixed needs (w,h)", id))
		}
		w, _ := items[0].AsUint32()
		h, _ := items[1].AsUint32()
		return image.SizeRule{Kind: image.Fixed, W: w, H: h}, nil
	case "CanvasRelative":
		unwrapped := v.Unwrap()
		r, _ := unwrapped.AsFloat32()
		return image.SizeRule{Kind: image.CanvasRelative, Ratio: r}, nil
	case "At4k":
		items := v.AsSeq()
		if len(items) != 2 {
			return image.SizeRule{}, apperr.New(apperr.Parse, path, fmt.Errorf("image %q: At4k needs (w,h)", id))
		}
		w, _ := items[0].AsUint32()
		h, _ := items[1].AsUint32()
		return image.SizeRule{Kind: image.At4k, W: w, H: h}, nil
	default:
		return image.SizeRule{}, apperr.New(apperr.Parse, path, fmt.Errorf("image %q: unknown size rule %q", id, v.VariantName()))
	}
}

// StepKind tags which variant of Step is active.
type StepKind int

const (
	StepDraw StepKind = iota
	StepCompute
	StepGenerateMipLevels
)

// Step is a tagged union over the three chart-level operations.
type Step struct {
	Kind StepKind
	ID   string

	Draw    *Draw
	Compute *Compute
	MipmapImageID string
}

// Draw is the parsed Draw step: passes and items.
type Draw struct {
	Passes []Pass
	Items  []Item
}

// Pass is one render pass within a Draw step.
type Pass struct {
	ID              string
	DepthImageID    string // "" if no depth attachment; "Screen" for swapchain depth is not modeled (engine has no depth swapchain)
	ColorImageIDs   []string // "Screen" denotes the swapchain image
	HasClearColor   bool
	ClearColor      [4]float32
}

// Item is a Draw step's object or scene reference, by material/mesh id.
type Item struct {
	ID        string
	MeshID    string
	MaterialID string
	Instances float32
}

// RunKind tags a Compute step's buffer role.
type RunKind int

const (
	RunInit RunKind = iota
	RunSimulate
)

// BufferSide tags which half of a DoubleBuffer a compute shader binding
// reads: the frame just computed (Current) or the one it is about to write
// (Next).
type BufferSide int

const (
	BufferCurrent BufferSide = iota
	BufferNext
)

// BufferBinding names one storage-buffer binding a Compute step declares:
// the DoubleBuffer id and which side of it to bind.
type BufferBinding struct {
	BufferID string
	Side     BufferSide
}

// Compute is the parsed Compute step.
type Compute struct {
	Shader     string
	Run        RunKind
	BufferID   string
	Textures   map[string]string // sampler name -> image id
	Buffers    map[string]BufferBinding // shader storage-buffer name -> binding
	ControlMap map[string]string // shader uniform member name -> control id
}

func decodeStep(path string, v Value) (Step, error) {
	switch v.VariantName() {
	case "Draw":
		d, err := decodeDraw(path, v)
		if err != nil {
			return Step{}, err
		}
		return Step{Kind: StepDraw, ID: v.FieldString("id", ""), Draw: d}, nil
	case "Compute":
		c := decodeCompute(v)
		return Step{Kind: StepCompute, ID: v.FieldString("id", ""), Compute: c}, nil
	case "GenerateMipLevels":
		return Step{
			Kind:          StepGenerateMipLevels,
			ID:            v.FieldString("id", ""),
			MipmapImageID: v.FieldString("image_id", ""),
		}, nil
	default:
		return Step{}, apperr.New(apperr.Parse, path, fmt.Errorf("unknown step variant %q", v.VariantName()))
	}
}

func decodeDraw(path string, v Value) (*Draw, error) {
	d := &Draw{}
	if f, ok := v.Field("passes"); ok {
		for _, pv := range f.AsSeq() {
			pass := Pass{ID: pv.FieldString("id", "")}
			if cc, ok := pv.Field("clear_color"); ok {
				items := cc.Unwrap().AsSeq()
				if len(items) == 4 {
					pass.HasClearColor = true
					for i, it := range items {
						f32, _ := it.AsFloat32()
						pass.ClearColor[i] = f32
					}
				}
			} else {
				pass.HasClearColor = true
				pass.ClearColor = [4]float32{0.03, 0.03, 0.03, 1}
			}
			if di, ok := pv.Field("depth_image"); ok {
				pass.DepthImageID = decodeImageRef(di)
			}
			if ci, ok := pv.Field("color_images"); ok {
				for _, c := range ci.AsSeq() {
					pass.ColorImageIDs = append(pass.ColorImageIDs, decodeImageRef(c))
				}
			}
			d.Passes = append(d.Passes, pass)
		}
	}
	if f, ok := v.Field("items"); ok {
		for _, iv := range f.AsSeq() {
			d.Items = append(d.Items, Item{
				ID:         iv.FieldString("id", ""),
				MeshID:     iv.FieldString("mesh", ""),
				MaterialID: iv.FieldString("material", ""),
				Instances:  iv.FieldFloat32("instances", 1),
			})
		}
	}
	return d, nil
}

func decodeImageRef(v Value) string {
	if v.VariantName() == "Screen" {
		return "Screen"
	}
	return v.Unwrap().Str
}

func decodeCompute(v Value) *Compute {
	c := &Compute{
		Shader:     v.FieldString("shader", ""),
		Textures:   decodeTextures(v),
		Buffers:    decodeBufferBindings(v),
		ControlMap: decodeControlMap(v),
	}
	if run, ok := v.Field("run"); ok {
		switch run.VariantName() {
		case "Init":
			c.Run = RunInit
			c.BufferID = run.Unwrap().Str
		case "Simulation":
			c.Run = RunSimulate
			c.BufferID = run.Unwrap().Str
		}
	}
	return c
}

// decodeTextures parses a `textures: {slot_name: image_id}` field, shared by
// Material and Compute descriptors.
func decodeTextures(v Value) map[string]string {
	out := map[string]string{}
	f, ok := v.Field("textures")
	if !ok {
		return out
	}
	for name, ref := range f.Map() {
		out[name] = ref.Unwrap().Str
	}
	return out
}

// decodeBufferBindings parses a `buffers: {name: Current(id)|Next(id)}`
// field.
func decodeBufferBindings(v Value) map[string]BufferBinding {
	out := map[string]BufferBinding{}
	f, ok := v.Field("buffers")
	if !ok {
		return out
	}
	for name, ref := range f.Map() {
		binding := BufferBinding{BufferID: ref.Unwrap().Str}
		if ref.VariantName() == "Next" {
			binding.Side = BufferNext
		}
		out[name] = binding
	}
	return out
}

// decodeControlMap parses a `control_map: {uniform_name: control_id}` field.
func decodeControlMap(v Value) map[string]string {
	out := map[string]string{}
	f, ok := v.Field("control_map")
	if !ok {
		return out
	}
	for name, ref := range f.Map() {
		out[name] = ref.Str
	}
	return out
}

// Material is the parsed material descriptor: one MaterialPass per pass id
// it participates in, plus the textures and buffers its passes' shaders
// bind.
type Material struct {
	Passes   map[string]MaterialPass
	Textures map[string]string
	Buffers  map[string]BufferBinding
}

// MaterialPass configures one pass's draw call for a material.
type MaterialPass struct {
	VertexShader   string
	FragmentShader string
	DepthTest      bool
	DepthWrite     bool
	Blend          gpu.PipelineBlendMode
}

// DecodeMaterial parses a material descriptor fragment (embedded within an
// item, or its own file, depending on project layout).
func DecodeMaterial(path, src string) (*Material, error) {
	root, err := Parse(path, src)
	if err != nil {
		return nil, err
	}
	m := &Material{
		Passes:   map[string]MaterialPass{},
		Textures: decodeTextures(root),
		Buffers:  decodeBufferBindings(root),
	}
	passesField, ok := root.Field("passes")
	if !ok {
		return m, nil
	}
	for id, pv := range passesField.Fields {
		blend := gpu.BlendNone
		if bv, ok := pv.Field("blend_mode"); ok {
			switch bv.VariantName() {
			case "Alpha":
				blend = gpu.BlendAlpha
			case "Additive":
				blend = gpu.BlendAdditive
			}
		}
		m.Passes[id] = MaterialPass{
			VertexShader:   pv.FieldString("vertex_shader", ""),
			FragmentShader: pv.FieldString("fragment_shader", ""),
			DepthTest:      pv.FieldBool("depth_test", true),
			DepthWrite:     pv.FieldBool("depth_write", true),
			Blend:          blend,
		}
	}
	return m, nil
}

// Config is the parsed top-level config.ron, the only descriptor read
// before a Loader exists: it names the project root and whether cmd/bitang
// starts in frame-dump ("demo") mode or a live window (§6 Configuration).
type Config struct {
	RootFolder      string
	StartInDemoMode bool
}

// DecodeConfig parses a config.ron document.
func DecodeConfig(path, src string) (*Config, error) {
	root, err := Parse(path, src)
	if err != nil {
		return nil, err
	}
	return &Config{
		RootFolder:      root.FieldString("root_folder", "."),
		StartInDemoMode: root.FieldBool("start_in_demo_mode", false),
	}, nil
}
