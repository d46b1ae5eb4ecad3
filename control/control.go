package control

import "sync"

// Component is one of a Control's four scalar channels.
type Component struct {
	Value     float32
	Spline    Spline
	UseSpline bool
}

// Control is a named, persisted, up-to-4-component float parameter. A
// Control is never destroyed for the lifetime of its owning ControlRepository;
// it can only be unbound from a chart's current ControlSet.
type Control struct {
	id Id

	mu         sync.Mutex
	components [4]Component

	usedComponentCount int
}

// NewControl creates a Control at id, seeding each component's initial value
// from defaultValue (only as many entries as the caller cares about are
// meaningful; unused entries default to 0).
func NewControl(id Id, defaultValue [4]float32) *Control {
	c := &Control{id: id}
	for i := 0; i < 4; i++ {
		c.components[i] = Component{Value: defaultValue[i]}
	}
	return c
}

// ID returns the control's identifier.
func (c *Control) ID() Id {
	return c.id
}

// Components returns a snapshot copy of the four components.
func (c *Control) Components() [4]Component {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.components
}

// SetComponents overwrites all four components, e.g. when restoring from
// persisted controls.ron data.
func (c *Control) SetComponents(components [4]Component) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components = components
}

// Set overwrites each component's current value, leaving splines untouched.
func (c *Control) Set(value [4]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < 4; i++ {
		c.components[i].Value = value[i]
	}
}

// EvaluateSplines updates every component whose UseSpline flag is set from
// its spline, evaluated at time t.
func (c *Control) EvaluateSplines(t float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.components {
		if c.components[i].UseSpline {
			c.components[i].Value = c.components[i].Spline.Evaluate(t)
		}
	}
}

// AsFloat returns the value of the first component.
func (c *Control) AsFloat() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.components[0].Value
}

// AsVec2 returns the values of the first two components.
func (c *Control) AsVec2() [2]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return [2]float32{c.components[0].Value, c.components[1].Value}
}

// AsVec3 returns the values of the first three components.
func (c *Control) AsVec3() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return [3]float32{c.components[0].Value, c.components[1].Value, c.components[2].Value}
}

// AsVec4 returns the values of all four components.
func (c *Control) AsVec4() [4]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return [4]float32{c.components[0].Value, c.components[1].Value, c.components[2].Value, c.components[3].Value}
}

// UsedComponentCount returns how many components the referencing shaders
// actually consume, as recorded during the current load cycle.
func (c *Control) UsedComponentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usedComponentCount
}

// noteUsedComponentCount grows the used-component-count monotonically within
// a load cycle: it records the maximum across every builder call that
// referenced the control.
func (c *Control) noteUsedComponentCount(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > c.usedComponentCount {
		c.usedComponentCount = n
	}
}

// resetUsedComponentCount zeroes the counter at the start of a load cycle.
func (c *Control) resetUsedComponentCount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usedComponentCount = 0
}
