package camera

import (
	"testing"

	"github.com/aedm/bitang/control"
	"github.com/aedm/bitang/globals"
	"github.com/stretchr/testify/assert"
)

func newTestCamera() Camera {
	mk := func(v [4]float32) *control.Control {
		return control.NewControl(control.NewId(control.Part{Kind: control.Camera, Name: "main"}), v)
	}
	return NewCamera(WithControls(
		mk([4]float32{0, 0, 0, 0}),           // target
		mk([4]float32{0, 0, 0, 0}),           // orientation
		mk([4]float32{5, 0, 0, 0}),           // distance
		mk([4]float32{0.7, 0, 0, 0}),         // fov
		mk([4]float32{0, 0, 0, 0}),           // shake (magnitude 0 => no jitter)
		mk([4]float32{1, 0, 0, 0}),           // speed
		mk([4]float32{0, 0, 0, 0}),           // time_adjustment
	))
}

func TestCamera_SetGlobals_PopulatesPixelSizeAndAspect(t *testing.T) {
	c := newTestCamera()
	g := globals.New()
	c.SetGlobals(g, 0, 1920, 1080)

	assert.InDelta(t, 1.0/1920, g.PixelSize[0], 1e-9)
	assert.InDelta(t, 1.0/1080, g.PixelSize[1], 1e-9)
	assert.InDelta(t, 1920.0/1080.0, g.AspectRatio, 1e-6)
	assert.Equal(t, float32(0.05), g.ZNear)
}

func TestCamera_ShadowGlobals_LightDirCamspaceIsForward(t *testing.T) {
	c := newTestCamera()
	g := globals.New()
	c.SetShadowGlobals(g, [3]float32{0, -1, 0}, 10)

	assert.Equal(t, [3]float32{0, 0, 1}, g.LightDirCamspaceNorm)
	assert.Equal(t, float32(10), g.ShadowMapSize)
}
