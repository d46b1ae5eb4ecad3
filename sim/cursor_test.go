package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func drain(c *Cursor) int {
	count := 0
	for {
		if _, ok := c.StepAndReturnDiff(); !ok {
			return count
		}
		count++
	}
}

func TestCursor_Determinism(t *testing.T) {
	const precalc = float32(0.2)
	c := New(precalc)
	c.Reset()
	steps := drain(c) // seeds simulation_time at cursor 0 - precalc
	c.AdvanceCursor(0.35)

	steps += drain(c)
	want := int(math.Ceil(float64((c.CursorTime()+precalc)/StepSeconds))) + 1
	assert.Equal(t, want, steps)

	r := c.Ratio()
	assert.GreaterOrEqual(t, r, float32(0))
	assert.LessOrEqual(t, r, float32(1))
}

func TestCursor_CatchUpBound(t *testing.T) {
	c := New(0)
	c.Reset()
	c.AdvanceCursor(0.001)
	drain(c)

	// Jump the cursor far ahead, as a long stall between frames would.
	c.AdvanceCursor(10)
	c.EnsureUptodateMaxSteps(3)

	count := drain(c)
	assert.LessOrEqual(t, count, 4) // N+1
}

func TestCursor_RatioPanicsBeforeFirstStep(t *testing.T) {
	c := New(0)
	assert.Panics(t, func() { c.Ratio() })
}

func TestCursor_PrecalcExample(t *testing.T) {
	// Mirrors the worked example: precalc=1.0, step=1/60, cursor=0.
	// First step seeds simulation_time = cursor - precalc = -1.0, then
	// steps of 1/60 run until simulation_time >= cursor (0): that's 60
	// more steps after the seed, i.e. 61 Simulate-equivalent advances.
	c := New(1.0)
	c.Reset()

	_, ok := c.StepAndReturnDiff() // seed
	assert.True(t, ok)

	n := 0
	for {
		_, ok := c.StepAndReturnDiff()
		if !ok {
			break
		}
		n++
	}
	assert.Equal(t, 60, n)
}
