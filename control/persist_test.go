package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlsRoundTrip_PreservesValuesSplinesAndUseSpline(t *testing.T) {
	repo := NewRepository()
	id := NewId(Part{Kind: Chart, Name: "intro"}, Part{Kind: ChartValues, Name: "speed"})
	c := repo.GetOrCreate(id, [4]float32{1, 2, 3, 4})
	c.SetComponents([4]Component{
		{Value: 1, UseSpline: true, Spline: Spline{Points: []Point{
			{Time: 0, Value: 0, IsLinearAfter: true},
			{Time: 1, Value: 1, IsLinearAfter: false},
		}}},
		{Value: 2},
		{Value: 3},
		{Value: 4},
	})

	encoded := EncodeControls(repo.ControlsForChart("intro"))

	stored, err := DecodeControls("controls.ron", encoded)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, id.StripChart(), stored[0].ID)

	repo2 := NewRepository()
	ImportInto(repo2, "intro", stored)
	restored := repo2.ControlsForChart("intro")
	require.Len(t, restored, 1)

	origComponents := c.Components()
	restoredComponents := restored[0].Components()
	assert.Equal(t, origComponents, restoredComponents)
	assert.True(t, id.Equal(restored[0].ID()))
}

func TestControlsRoundTrip_EmptyRepositoryProducesNoControls(t *testing.T) {
	encoded := EncodeControls(nil)
	stored, err := DecodeControls("controls.ron", encoded)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
