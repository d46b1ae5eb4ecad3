package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_UsedComponentCountIsMaxAcrossCycle(t *testing.T) {
	repo := NewRepository()
	b := NewBuilder(NewId(Part{Chart, "c"}), repo)
	id := NewId(Part{Chart, "c"}, Part{Value, "speed"})

	c1 := b.GetFloat(id, 0)
	assert.Equal(t, 1, c1.UsedComponentCount())

	c2 := b.GetVec3(id, [3]float32{})
	assert.Same(t, c1, c2)
	assert.Equal(t, 3, c2.UsedComponentCount())

	c3 := b.GetVec2(id, [2]float32{})
	assert.Equal(t, 3, c3.UsedComponentCount(), "count must not shrink within a cycle")
}

func TestRepository_ResetClearsUsage(t *testing.T) {
	repo := NewRepository()
	b := NewBuilder(NewId(Part{Chart, "c"}), repo)
	id := NewId(Part{Chart, "c"}, Part{Value, "speed"})
	b.GetVec4(id, [4]float32{})

	repo.ResetUsedComponentCounts()
	c := repo.GetOrCreate(id, [4]float32{})
	assert.Equal(t, 0, c.UsedComponentCount())
}

func TestBuilder_FirstAccessOrderPreserved(t *testing.T) {
	repo := NewRepository()
	b := NewBuilder(NewId(Part{Chart, "c"}), repo)
	idA := NewId(Part{Chart, "c"}, Part{Value, "a"})
	idB := NewId(Part{Chart, "c"}, Part{Value, "b"})

	b.GetFloat(idB, 0)
	b.GetFloat(idA, 0)
	b.GetFloat(idB, 0) // re-access must not move position

	set := b.Build(nil)
	require.Len(t, set.UsedControls, 2)
	assert.Equal(t, idB, set.UsedControls[0].ID())
	assert.Equal(t, idA, set.UsedControls[1].ID())
}

func TestControlSet_TrieOrderByKindThenDeclarationOrder(t *testing.T) {
	repo := NewRepository()
	root := NewId(Part{Chart, "c"})
	b := NewBuilder(root, repo)

	// Two ChartStep-scoped values under different steps, declared in
	// chartStepIDs as ["stepB", "stepA"] — stepB must sort first despite
	// being inserted second.
	idStepA := root.Add(ChartStep, "stepA").Add(Value, "x")
	idStepB := root.Add(ChartStep, "stepB").Add(Value, "x")
	idCamera := root.Add(Camera, "main").Add(Value, "fov")

	b.GetFloat(idStepA, 0)
	b.GetFloat(idStepB, 0)
	b.GetFloat(idCamera, 0)

	set := b.Build([]string{"stepB", "stepA"})
	// Each distinct (kind, name) prefix is its own child: Camera:main,
	// ChartStep:stepB and ChartStep:stepA.
	require.Len(t, set.RootNode.Children, 3)

	// Camera (kind=2) sorts before ChartStep (kind=7).
	assert.Equal(t, Camera, set.RootNode.Children[0].IDPrefix.Parts[len(root.Parts)].Kind)
	assert.Equal(t, ChartStep, set.RootNode.Children[1].IDPrefix.Parts[len(root.Parts)].Kind)
	assert.Equal(t, ChartStep, set.RootNode.Children[2].IDPrefix.Parts[len(root.Parts)].Kind)

	assert.Equal(t, "stepB", set.RootNode.Children[1].IDPrefix.Parts[len(root.Parts)].Name)
	assert.Equal(t, "stepA", set.RootNode.Children[2].IDPrefix.Parts[len(root.Parts)].Name)
}

func TestControl_EvaluateSplinesOnlyWhenUseSplineSet(t *testing.T) {
	c := NewControl(NewId(Part{Chart, "c"}), [4]float32{1, 2, 3, 4})
	comps := c.Components()
	comps[0].UseSpline = true
	comps[0].Spline = Spline{Points: []Point{{Time: 0, Value: 7}, {Time: 1, Value: 9}}}
	c.SetComponents(comps)

	c.EvaluateSplines(0)
	assert.Equal(t, float32(7), c.AsVec4()[0])
	assert.Equal(t, float32(2), c.AsVec4()[1], "component without use_spline is untouched")
}
