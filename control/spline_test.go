package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpline_EmptyReturnsZero(t *testing.T) {
	s := NewSpline()
	assert.Equal(t, float32(0), s.Evaluate(1.23))
}

func TestSpline_BoundaryClamping(t *testing.T) {
	s := Spline{Points: []Point{
		{Time: 0, Value: 10},
		{Time: 1, Value: 20},
		{Time: 2, Value: 5},
	}}
	assert.Equal(t, float32(10), s.Evaluate(-5))
	assert.Equal(t, float32(10), s.Evaluate(0))
	assert.Equal(t, float32(5), s.Evaluate(2))
	assert.Equal(t, float32(5), s.Evaluate(100))
}

func TestSpline_TwoPointInterpolationIsLinear(t *testing.T) {
	s := Spline{Points: []Point{
		{Time: 0, Value: 0},
		{Time: 1, Value: 1},
	}}
	v := s.Evaluate(0.5)
	require.InDelta(t, 0.5, v, 1e-6)
	assert.GreaterOrEqual(t, v, float32(0.35))
	assert.LessOrEqual(t, v, float32(0.65))
}

func TestSpline_DegenerateDeltaReturnsP1(t *testing.T) {
	s := Spline{Points: []Point{
		{Time: 0, Value: 1},
		{Time: 1e-13, Value: 5},
		{Time: 1, Value: 3},
	}}
	assert.Equal(t, float32(1), s.Evaluate(1e-13))
}

func TestSpline_PointStoresIsLinearAfter(t *testing.T) {
	p := Point{Time: 0.5, Value: 1, IsLinearAfter: true}
	assert.True(t, p.IsLinearAfter)
}
