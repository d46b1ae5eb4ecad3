package control

import "sort"

// epsilon guards against division by a near-zero time delta between points.
const epsilon = 1e-12

// Point is a single Catmull-Rom control point. IsLinearAfter is persisted but
// not consulted by Evaluate; it is reserved for a future linear-segment mode
// and must round-trip verbatim.
type Point struct {
	Time          float32
	Value         float32
	IsLinearAfter bool
}

// Spline is a sequence of Points, sorted strictly by Time.
type Spline struct {
	Points []Point
}

// NewSpline returns an empty spline.
func NewSpline() Spline {
	return Spline{}
}

// Evaluate returns the spline's value at time t using Catmull-Rom (Hermite)
// interpolation between the two points bracketing t, clamping to the first
// or last point's value outside the spline's time range.
func (s Spline) Evaluate(t float32) float32 {
	if len(s.Points) == 0 {
		return 0
	}

	indexAfter := sort.Search(len(s.Points), func(i int) bool {
		return s.Points[i].Time >= t
	})

	if indexAfter == 0 {
		return s.Points[0].Value
	}
	if indexAfter >= len(s.Points) {
		return s.Points[len(s.Points)-1].Value
	}

	p0 := s.Points[max0(indexAfter-2)]
	p1 := s.Points[indexAfter-1]
	p2 := s.Points[indexAfter]
	p3 := s.Points[minN(indexAfter+1, len(s.Points)-1)]

	dt := p2.Time - p1.Time
	if dt < epsilon {
		return p1.Value
	}

	var tangent1, tangent2 float32
	if indexAfter > 1 {
		tangent1 = tangent(p0, p2)
	}
	if indexAfter < len(s.Points)-1 {
		tangent2 = tangent(p1, p3)
	}

	u := (t - p1.Time) / dt
	ea := p1.Value
	eb := dt * tangent1
	ec := 3*(p2.Value-p1.Value) - dt*(2*tangent1+tangent2)
	ed := -2*(p2.Value-p1.Value) + dt*(tangent1+tangent2)
	return ea + u*eb + u*u*ec + u*u*u*ed
}

func tangent(before, after Point) float32 {
	dt := after.Time - before.Time
	if dt < epsilon {
		return 0
	}
	return (after.Value - before.Value) / dt
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func minN(i, n int) int {
	if i > n {
		return n
	}
	return i
}
