// Package globals holds the fixed record of per-frame uniform values shared
// by every shader in a chart: clock state, the compound camera/light
// matrices, and simulation bookkeeping.
package globals

import "github.com/aedm/bitang/common"

// Kind identifies one of the fixed global uniform slots a shader can declare
// via a `g_`-prefixed uniform member name. Kind.Name() is the snake_case
// name a shader author writes after `g_`.
type Kind int

const (
	AppTime Kind = iota
	ChartTime
	InstanceCount
	ProjectionFromCamera
	CameraFromWorld
	WorldFromModel
	CameraFromModel
	ProjectionFromModel
	ProjectionFromWorld
	LightProjectionFromWorld
	LightProjectionFromModel
	PixelSize
	AspectRatio
	ZNear
	FieldOfView
	ShadowMapSize
	LightDirWorldspaceNorm
	LightDirCamspaceNorm
	SimulationFrameRatio
	SimulationStepSeconds
	SimulationElapsedTimeSinceLastRender
	IsPaused
)

// names maps each Kind to the snake_case identifier written after the `g_`
// prefix in shader source, e.g. Kind AppTime -> "app_time" (written
// "g_app_time" in the shader).
var names = map[Kind]string{
	AppTime:                              "app_time",
	ChartTime:                            "chart_time",
	InstanceCount:                        "instance_count",
	ProjectionFromCamera:                 "projection_from_camera",
	CameraFromWorld:                      "camera_from_world",
	WorldFromModel:                       "world_from_model",
	CameraFromModel:                      "camera_from_model",
	ProjectionFromModel:                  "projection_from_model",
	ProjectionFromWorld:                  "projection_from_world",
	LightProjectionFromWorld:             "light_projection_from_world",
	LightProjectionFromModel:             "light_projection_from_model",
	PixelSize:                            "pixel_size",
	AspectRatio:                          "aspect_ratio",
	ZNear:                                "z_near",
	FieldOfView:                          "field_of_view",
	ShadowMapSize:                        "shadow_map_size",
	LightDirWorldspaceNorm:               "light_dir_worldspace_norm",
	LightDirCamspaceNorm:                 "light_dir_camspace_norm",
	SimulationFrameRatio:                 "simulation_frame_ratio",
	SimulationStepSeconds:                "simulation_step_seconds",
	SimulationElapsedTimeSinceLastRender: "simulation_elapsed_time_since_last_render",
	IsPaused:                             "is_paused",
}

// byName is the reverse lookup used by the shader reflector to map a
// `g_`-prefixed uniform member name back to its Kind.
var byName map[string]Kind

func init() {
	byName = make(map[string]Kind, len(names))
	for k, n := range names {
		byName[n] = k
	}
}

// Name returns the snake_case name of k, without the `g_` prefix.
func (k Kind) Name() string { return names[k] }

// KindByName looks up a Kind by its snake_case name (as extracted from a
// `g_`-prefixed uniform member). ok is false for unknown names.
func KindByName(name string) (Kind, bool) {
	k, ok := byName[name]
	return k, ok
}

// Globals is the fixed per-frame uniform record every draw/compute step reads
// from when packing its uniform buffer.
type Globals struct {
	AppTime       float32
	ChartTime     float32
	InstanceCount float32

	ProjectionFromCamera    [16]float32
	CameraFromWorld         [16]float32
	WorldFromModel          [16]float32
	CameraFromModel         [16]float32
	ProjectionFromModel     [16]float32
	ProjectionFromWorld     [16]float32
	LightProjectionFromWorld [16]float32
	LightProjectionFromModel [16]float32

	PixelSize    [2]float32
	AspectRatio  float32
	ZNear        float32
	FieldOfView  float32
	ShadowMapSize float32

	LightDirWorldspaceNorm [3]float32
	LightDirCamspaceNorm   [3]float32

	SimulationFrameRatio                 float32
	SimulationStepSeconds                float32
	SimulationElapsedTimeSinceLastRender float32
	IsPaused                              bool
}

// New returns a Globals record with every matrix set to identity.
func New() *Globals {
	g := &Globals{}
	common.Identity(g.ProjectionFromCamera[:])
	common.Identity(g.CameraFromWorld[:])
	common.Identity(g.WorldFromModel[:])
	common.Identity(g.CameraFromModel[:])
	common.Identity(g.ProjectionFromModel[:])
	common.Identity(g.ProjectionFromWorld[:])
	common.Identity(g.LightProjectionFromWorld[:])
	common.Identity(g.LightProjectionFromModel[:])
	return g
}

// Get returns the slice of f32 backing kind, ready to pack into a uniform
// buffer member.
func (g *Globals) Get(kind Kind) []float32 {
	switch kind {
	case AppTime:
		return g.AppTime1()
	case ChartTime:
		return singletonSlice(&g.ChartTime)
	case InstanceCount:
		return singletonSlice(&g.InstanceCount)
	case ProjectionFromCamera:
		return g.ProjectionFromCamera[:]
	case CameraFromWorld:
		return g.CameraFromWorld[:]
	case WorldFromModel:
		return g.WorldFromModel[:]
	case CameraFromModel:
		return g.CameraFromModel[:]
	case ProjectionFromModel:
		return g.ProjectionFromModel[:]
	case ProjectionFromWorld:
		return g.ProjectionFromWorld[:]
	case LightProjectionFromWorld:
		return g.LightProjectionFromWorld[:]
	case LightProjectionFromModel:
		return g.LightProjectionFromModel[:]
	case PixelSize:
		return g.PixelSize[:]
	case AspectRatio:
		return singletonSlice(&g.AspectRatio)
	case ZNear:
		return singletonSlice(&g.ZNear)
	case FieldOfView:
		return singletonSlice(&g.FieldOfView)
	case ShadowMapSize:
		return singletonSlice(&g.ShadowMapSize)
	case LightDirWorldspaceNorm:
		return g.LightDirWorldspaceNorm[:]
	case LightDirCamspaceNorm:
		return g.LightDirCamspaceNorm[:]
	case SimulationFrameRatio:
		return singletonSlice(&g.SimulationFrameRatio)
	case SimulationStepSeconds:
		return singletonSlice(&g.SimulationStepSeconds)
	case SimulationElapsedTimeSinceLastRender:
		return singletonSlice(&g.SimulationElapsedTimeSinceLastRender)
	case IsPaused:
		if g.IsPaused {
			one := float32(1)
			return []float32{one}
		}
		return []float32{0}
	default:
		return nil
	}
}

// AppTime1 returns a single-element slice holding AppTime; split out from
// Get's switch only so it can be unit tested in isolation.
func (g *Globals) AppTime1() []float32 { return singletonSlice(&g.AppTime) }

// singletonSlice returns a fresh one-element slice copying *f. Global scalars
// are packed into uniform buffers immediately after being read, so a copy
// (rather than an aliasing unsafe view) keeps Get's contract simple.
func singletonSlice(f *float32) []float32 {
	return []float32{*f}
}

// UpdateCompoundMatrices recomputes the four compound matrices from their
// factors, in this left-to-right product order:
//
//	camera_from_model = camera_from_world * world_from_model
//	projection_from_model = projection_from_camera * camera_from_model
//	light_projection_from_model = light_projection_from_world * world_from_model
//	projection_from_world = projection_from_camera * camera_from_world
func (g *Globals) UpdateCompoundMatrices() {
	common.Mul4(g.CameraFromModel[:], g.CameraFromWorld[:], g.WorldFromModel[:])
	common.Mul4(g.ProjectionFromModel[:], g.ProjectionFromCamera[:], g.CameraFromModel[:])
	common.Mul4(g.LightProjectionFromModel[:], g.LightProjectionFromWorld[:], g.WorldFromModel[:])
	common.Mul4(g.ProjectionFromWorld[:], g.ProjectionFromCamera[:], g.CameraFromWorld[:])
}
