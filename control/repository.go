package control

import "sync"

// Repository owns every Control for the lifetime of the process. Controls
// are looked up (and lazily created) by Id; once created they are never
// removed, only unbound from a chart's current ControlSet.
type Repository struct {
	mu    sync.Mutex
	byID  map[string]*Control
	order []*Control // insertion order, used for stable export iteration
}

// NewRepository creates an empty control repository.
func NewRepository() *Repository {
	return &Repository{byID: make(map[string]*Control)}
}

// GetOrCreate returns the control at id, creating it with defaultValue if
// absent.
func (r *Repository) GetOrCreate(id Id, defaultValue [4]float32) *Control {
	key := idKey(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[key]; ok {
		return c
	}
	c := NewControl(id, defaultValue)
	r.byID[key] = c
	r.order = append(r.order, c)
	return c
}

// ResetUsedComponentCounts zeroes every control's used-component counter,
// called once at the start of each load cycle.
func (r *Repository) ResetUsedComponentCounts() {
	r.mu.Lock()
	controls := append([]*Control{}, r.order...)
	r.mu.Unlock()
	for _, c := range controls {
		c.resetUsedComponentCount()
	}
}

// ControlsForChart returns every control in the repository whose id's
// leading Chart part matches chartID, in insertion order.
func (r *Repository) ControlsForChart(chartID string) []*Control {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Control
	for _, c := range r.order {
		parts := c.ID().Parts
		if len(parts) > 0 && parts[0].Kind == Chart && parts[0].Name == chartID {
			out = append(out, c)
		}
	}
	return out
}

// Import installs a control at id with the given components, overwriting any
// existing control's components but preserving its usage counter and
// identity (import happens before a load cycle populates usage).
func (r *Repository) Import(id Id, components [4]Component) *Control {
	key := idKey(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[key]; ok {
		c.SetComponents(components)
		return c
	}
	c := &Control{id: id, components: components}
	r.byID[key] = c
	r.order = append(r.order, c)
	return c
}

func idKey(id Id) string {
	return id.String()
}
