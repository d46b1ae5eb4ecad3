package globals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateCompoundMatrices(t *testing.T) {
	g := New()
	// world_from_model: translate by (1,0,0); camera_from_world: translate by (0,2,0).
	g.WorldFromModel = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 1}
	g.CameraFromWorld = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 2, 0, 1}
	g.ProjectionFromCamera = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 5, 1}
	g.LightProjectionFromWorld = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

	g.UpdateCompoundMatrices()

	// camera_from_model translation should be (1,2,0): model's (1,0,0) moved into world then camera space.
	assert.InDelta(t, 1, g.CameraFromModel[12], 1e-6)
	assert.InDelta(t, 2, g.CameraFromModel[13], 1e-6)

	// projection_from_world = projection_from_camera * camera_from_world: its
	// translation is camera_from_world's (0,2,0) plus the projection's z of 5.
	assert.InDelta(t, 0, g.ProjectionFromWorld[12], 1e-6)
	assert.InDelta(t, 2, g.ProjectionFromWorld[13], 1e-6)
}

func TestKindByName(t *testing.T) {
	k, ok := KindByName("app_time")
	assert.True(t, ok)
	assert.Equal(t, AppTime, k)

	_, ok = KindByName("not_a_global")
	assert.False(t, ok)
}

func TestGet_IsPaused(t *testing.T) {
	g := New()
	assert.Equal(t, []float32{0}, g.Get(IsPaused))
	g.IsPaused = true
	assert.Equal(t, []float32{1}, g.Get(IsPaused))
}
