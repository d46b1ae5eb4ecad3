// Package camera computes the per-frame camera globals: the perspective
// projection driven by a control-backed target/orientation/distance/FOV
// rig with procedural shake, and the orthographic override used when
// rendering the shadow pass.
package camera

import (
	"math"
	"sync"

	"github.com/aedm/bitang/common"
	"github.com/aedm/bitang/control"
	"github.com/aedm/bitang/globals"
)

const zNear = 0.05

// Camera reads its rig from control-backed parameters and writes the
// per-frame projection/view globals each draw step consults.
type Camera interface {
	// SetGlobals computes the perspective projection and view matrices for
	// canvas (w,h) at time appTime and writes them into g.
	SetGlobals(g *globals.Globals, appTime float32, canvasW, canvasH uint32)
	// SetShadowGlobals overrides g with the orthographic light-space camera
	// used to render the shadow pass, given the current light direction.
	SetShadowGlobals(g *globals.Globals, lightDirWorldspace [3]float32, shadowMapSize float32)
}

type cameraImpl struct {
	mu sync.Mutex

	target         *control.Control
	orientation    *control.Control
	distance       *control.Control
	fov            *control.Control
	shake          *control.Control
	speed          *control.Control
	timeAdjustment *control.Control
}

var _ Camera = (*cameraImpl)(nil)

// CameraBuilderOption configures a Camera at construction time.
type CameraBuilderOption func(*cameraImpl)

// WithControls binds every control-backed input of the camera rig.
func WithControls(target, orientation, distance, fov, shake, speed, timeAdjustment *control.Control) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.target, c.orientation, c.distance = target, orientation, distance
		c.fov, c.shake, c.speed, c.timeAdjustment = fov, shake, speed, timeAdjustment
	}
}

// NewCamera constructs a Camera from its control-backed rig.
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *cameraImpl) SetGlobals(g *globals.Globals, appTime float32, canvasW, canvasH uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, h := float32(canvasW), float32(canvasH)
	g.PixelSize = [2]float32{1 / w, 1 / h}
	g.AspectRatio = w / h
	g.ZNear = zNear
	g.FieldOfView = c.fov.AsFloat()

	common.PerspectiveInfiniteLH(g.ProjectionFromCamera[:], g.FieldOfView, g.AspectRatio, zNear)

	target := c.target.AsVec3()
	orient := c.orientation.AsVec3()
	distance := c.distance.AsFloat()
	shake := c.shake.AsVec4()
	speed := c.speed.AsFloat()
	timeAdj := c.timeAdjustment.AsFloat()

	shakeMat := shakeMatrix(appTime, speed, timeAdj, shake)

	var translateDist, rotZ, rotX, rotY, translateTarget, tmp1, tmp2, tmp3 [16]float32
	common.Translate4(translateDist[:], 0, 0, distance)
	common.RotateZ4(rotZ[:], orient[2])
	common.RotateX4(rotX[:], orient[0])
	common.RotateY4(rotY[:], orient[1])
	common.Translate4(translateTarget[:], -target[0], -target[1], -target[2])

	common.Mul4(tmp1[:], translateDist[:], rotZ[:])
	common.Mul4(tmp2[:], tmp1[:], rotX[:])
	common.Mul4(tmp3[:], tmp2[:], rotY[:])
	common.Mul4(g.CameraFromWorld[:], tmp3[:], translateTarget[:])
	common.Mul4(g.CameraFromWorld[:], shakeMat[:], g.CameraFromWorld[:])

	lightDirWorld := g.LightDirWorldspaceNorm
	g.LightDirCamspaceNorm = common.NormalizeVec3(common.Mat4FromMat3Upper(g.CameraFromWorld[:], lightDirWorld))

	common.Identity(g.WorldFromModel[:])
	g.UpdateCompoundMatrices()
}

// shakeMatrix computes rotZ(roll) * rotX(pitch) * rotY(yaw) from three
// sine oscillators at fixed frequencies, scaled by shake.w and each axis's
// own component.
func shakeMatrix(appTime, speed, timeAdjustment float32, shake [4]float32) [16]float32 {
	t := appTime*speed*10 + timeAdjustment
	pitch := sin(t) * sin(1.257443*t) * sin(1.1123658*t) * 0.004 * shake[3] * shake[0]
	yaw := sin(2.423*t) * sin(1.257443*t) * sin(1.1123658*t) * 0.004 * shake[3] * shake[1]
	roll := sin(1.834634*t) * sin(1.257443*t) * sin(1.1123658*t) * 0.004 * shake[3] * shake[2]

	var rotZ, rotX, rotY, tmp1, out [16]float32
	common.RotateZ4(rotZ[:], roll)
	common.RotateX4(rotX[:], pitch)
	common.RotateY4(rotY[:], yaw)
	common.Mul4(tmp1[:], rotZ[:], rotX[:])
	common.Mul4(out[:], tmp1[:], rotY[:])
	return out
}

func sin(x float32) float32 { return float32(math.Sin(float64(x))) }

func (c *cameraImpl) SetShadowGlobals(g *globals.Globals, lightDirWorldspace [3]float32, shadowMapSize float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g.ShadowMapSize = shadowMapSize
	common.OrthographicLH(g.ProjectionFromCamera[:], shadowMapSize, shadowMapSize, -shadowMapSize, shadowMapSize)

	dir := common.NormalizeVec3(lightDirWorldspace)
	eye := [3]float32{-dir[0], -dir[1], -dir[2]}
	common.LookAt(g.CameraFromWorld[:], eye[0], eye[1], eye[2], 0, 0, 0, 0, 1, 0)

	g.LightDirCamspaceNorm = [3]float32{0, 0, 1}
	common.Identity(g.WorldFromModel[:])
	g.UpdateCompoundMatrices()
}
