package render

import (
	"github.com/aedm/bitang/globals"
	"github.com/aedm/bitang/gpu"
)

// Player drives a Project's timeline: it owns the current project-time
// cursor and pause flag, and on each Tick resolves the active cut, advances
// that cut's chart simulation, and renders the frame. While paused,
// chart_time is held fixed (§9 open question: is_paused=true keeps
// chart_time unchanged even though the cursor and compute dispatches still
// run, preserving the simulation ratio).
type Player struct {
	Project     *Project
	ProjectTime float32
	Paused      bool

	// frozenChartTime holds the chart_time each chart was at when it was
	// last ticked while paused, so repeated paused ticks don't drift.
	frozenChartTime map[string]float32
	hasFrozen       map[string]bool
}

// NewPlayer creates a Player positioned at the start of proj's timeline.
func NewPlayer(proj *Project) *Player {
	return &Player{
		Project:         proj,
		frozenChartTime: make(map[string]float32),
		hasFrozen:       make(map[string]bool),
	}
}

// SeekTo repositions the player at projectTime without touching Paused.
func (p *Player) SeekTo(projectTime float32) {
	p.ProjectTime = projectTime
	p.hasFrozen = make(map[string]bool)
}

// Tick advances project time by delta (unless paused), finds the cut active
// at the resulting time, advances its chart's simulation, and renders the
// frame. It returns false if no cut covers the current project time (the
// timeline has ended).
func (p *Player) Tick(device gpu.Device, encoder gpu.CommandEncoder, g *globals.Globals, delta, appTime float32, canvasW, canvasH uint32) (bool, error) {
	if !p.Paused {
		p.ProjectTime += delta
	}

	cut, ok := p.Project.ActiveCut(p.ProjectTime)
	if !ok {
		return false, nil
	}
	chart, ok := p.Project.Chart(cut.ChartID)
	if !ok {
		return false, nil
	}

	chart.AdvanceSimulation(device, encoder, g, delta, p.Paused)

	chartTime := cut.ChartTime(p.ProjectTime)
	if p.Paused {
		if !p.hasFrozen[cut.ChartID] {
			p.frozenChartTime[cut.ChartID] = chartTime
			p.hasFrozen[cut.ChartID] = true
		}
		chartTime = p.frozenChartTime[cut.ChartID]
	} else {
		p.hasFrozen[cut.ChartID] = false
	}

	if err := chart.RenderFrame(device, encoder, g, appTime, chartTime, p.Paused, canvasW, canvasH); err != nil {
		return false, err
	}
	return true, nil
}
