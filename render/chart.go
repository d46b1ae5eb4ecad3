// Package render implements the chart render graph (§4.F): the ordered
// step list a chart executes each frame, glued to its simulation cursor,
// control set and camera. Step dispatch is a tagged-variant switch rather
// than an interface, matching the teacher's closed-enum convention (see
// DESIGN.md) and the design notes' "polymorphism via tagged variants" rule.
package render

import (
	"github.com/aedm/bitang/camera"
	"github.com/aedm/bitang/control"
	"github.com/aedm/bitang/globals"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/image"
	"github.com/aedm/bitang/sim"
	"github.com/aedm/bitang/steps"
)

// StepKind tags which of the three chart-level operations a Step wraps.
type StepKind int

const (
	StepDraw StepKind = iota
	StepCompute
	StepMipmap
)

// Step is one entry in a Chart's ordered step list.
type Step struct {
	Kind    StepKind
	Draw    *steps.Draw
	Compute *steps.Compute
	Mipmap  *steps.Mipmap
}

// normalSimulateMaxSteps and pausedSimulateMaxSteps bound how much
// catch-up simulation work a single frame performs (§4.G, §8 "catch-up
// bound" property).
const (
	normalSimulateMaxSteps = 3
	pausedSimulateMaxSteps = 2
)

// Chart is a self-contained scene graph: its own control set, camera,
// attachment images, ordered step list, and simulation cursor.
type Chart struct {
	ID       string
	Controls control.Set
	Camera   camera.Camera
	Images   []*image.Image
	Steps    []Step
	Cursor   *sim.Cursor
}

// NewChart assembles a Chart from its already-loaded parts.
func NewChart(id string, controls control.Set, cam camera.Camera, images []*image.Image, chartSteps []Step, precalculationTime float32) *Chart {
	return &Chart{
		ID:       id,
		Controls: controls,
		Camera:   cam,
		Images:   images,
		Steps:    chartSteps,
		Cursor:   sim.New(precalculationTime),
	}
}

// ResetSimulation runs the chart's §4.G precalculation sequence: reset the
// cursor, seed simulation_time via one step, run every Init compute step at
// that time, then repeatedly step and run Simulate compute steps until the
// cursor is caught up. The precalculation drains unbounded, unlike a normal
// frame's bounded catch-up. Per §4.A, each step's simulation time is pushed
// into g.ChartTime and splines are evaluated at that time before the step's
// Init/Simulate compute steps run, so a spline-driven control sees the sim
// time it's actually being evaluated at, not the previous frame's.
func (c *Chart) ResetSimulation(device gpu.Device, encoder gpu.CommandEncoder, g *globals.Globals) {
	c.Cursor.Reset()
	if _, ok := c.Cursor.StepAndReturnDiff(); !ok {
		return
	}
	c.evaluateAtSimulationTime(g)
	c.runComputeSteps(device, encoder, g, steps.RunInit)
	for {
		if _, ok := c.Cursor.StepAndReturnDiff(); !ok {
			break
		}
		c.evaluateAtSimulationTime(g)
		c.runComputeSteps(device, encoder, g, steps.RunSimulate)
	}
}

// AdvanceSimulation advances the cursor by delta and runs Simulate compute
// steps until it catches up, bounded to normalSimulateMaxSteps per frame
// (pausedSimulateMaxSteps while paused). The cursor itself always advances;
// callers decide separately whether chart_time should move while paused
// (§9 open question). As with ResetSimulation, each step sets g.ChartTime to
// the step's simulation time and evaluates splines there before dispatching.
func (c *Chart) AdvanceSimulation(device gpu.Device, encoder gpu.CommandEncoder, g *globals.Globals, delta float32, isPaused bool) {
	c.Cursor.AdvanceCursor(delta)
	maxSteps := normalSimulateMaxSteps
	if isPaused {
		maxSteps = pausedSimulateMaxSteps
	}
	c.Cursor.EnsureUptodateMaxSteps(maxSteps)
	for i := 0; i <= maxSteps; i++ {
		if _, ok := c.Cursor.StepAndReturnDiff(); !ok {
			break
		}
		c.evaluateAtSimulationTime(g)
		c.runComputeSteps(device, encoder, g, steps.RunSimulate)
	}
}

// evaluateAtSimulationTime sets g.ChartTime to the cursor's most recent
// simulation step time and evaluates every used control's spline there
// (§4.A: "A chart evaluates splines for all of its used_controls at the
// start of simulation and again before rendering at the current chart
// time").
func (c *Chart) evaluateAtSimulationTime(g *globals.Globals) {
	simTime := c.Cursor.SimulationTime()
	g.ChartTime = simTime
	for _, ctrl := range c.Controls.UsedControls {
		ctrl.EvaluateSplines(simTime)
	}
}

// runComputeSteps executes every Compute step of the chart whose Run kind
// matches, in declaration order.
func (c *Chart) runComputeSteps(device gpu.Device, encoder gpu.CommandEncoder, g *globals.Globals, run steps.RunKind) {
	for _, s := range c.Steps {
		if s.Kind == StepCompute && s.Compute.Run == run {
			s.Compute.Execute(device, encoder, g)
		}
	}
}

// RenderFrame evaluates splines at chartTime, resolves every image's size
// rule against the canvas, and executes the chart's Draw and Mipmap steps
// in declaration order. Compute steps are skipped in the render phase
// (§4.F): they only run during AdvanceSimulation/ResetSimulation.
func (c *Chart) RenderFrame(device gpu.Device, encoder gpu.CommandEncoder, g *globals.Globals, appTime, chartTime float32, isPaused bool, canvasW, canvasH uint32) error {
	for _, ctrl := range c.Controls.UsedControls {
		ctrl.EvaluateSplines(chartTime)
	}

	for _, img := range c.Images {
		if err := img.EnforceSizeRule(canvasW, canvasH); err != nil {
			return err
		}
	}

	g.ChartTime = chartTime
	g.SimulationFrameRatio = c.Cursor.Ratio()
	g.SimulationStepSeconds = sim.StepSeconds
	g.IsPaused = isPaused

	for _, s := range c.Steps {
		switch s.Kind {
		case StepDraw:
			if err := s.Draw.Execute(device, encoder, g, c.Camera, appTime, canvasW, canvasH); err != nil {
				return err
			}
		case StepMipmap:
			if err := s.Mipmap.Execute(encoder); err != nil {
				return err
			}
		case StepCompute:
			// skipped during render
		}
	}
	return nil
}
