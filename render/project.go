package render

// Cut maps a region of project time onto one chart's own chart_time axis
// (§3): chart_time = projectTime - Start + Offset, for projectTime in
// [Start, End).
type Cut struct {
	ChartID string
	Start   float32
	End     float32
	Offset  float32
}

// Contains reports whether projectTime falls within this cut's span.
func (cu Cut) Contains(projectTime float32) bool {
	return projectTime >= cu.Start && projectTime < cu.End
}

// ChartTime maps projectTime onto the cut's chart_time axis.
func (cu Cut) ChartTime(projectTime float32) float32 {
	return projectTime - cu.Start + cu.Offset
}

// Project is a fully loaded, render-ready project: every chart the cuts
// reference, resolved to runtime Chart objects, plus the cut timeline
// itself.
type Project struct {
	ChartsByID map[string]*Chart
	Cuts       []Cut
	Length     float32
}

// NewProject assembles a Project from its resolved charts and cut list.
// Length is the latest cut end time, matching descriptor.Project.Length.
func NewProject(chartsByID map[string]*Chart, cuts []Cut) *Project {
	var length float32
	for _, cu := range cuts {
		if cu.End > length {
			length = cu.End
		}
	}
	return &Project{ChartsByID: chartsByID, Cuts: cuts, Length: length}
}

// ActiveCut returns the cut covering projectTime, or false if projectTime
// falls outside every cut (e.g. past the end of the timeline).
func (p *Project) ActiveCut(projectTime float32) (Cut, bool) {
	for _, cu := range p.Cuts {
		if cu.Contains(projectTime) {
			return cu, true
		}
	}
	return Cut{}, false
}

// Chart looks up a cut's target chart by id.
func (p *Project) Chart(chartID string) (*Chart, bool) {
	c, ok := p.ChartsByID[chartID]
	return c, ok
}
