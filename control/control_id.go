// Package control implements the tree of named, animatable scalar/vector
// parameters: ControlId addressing, Spline evaluation, the ControlSetBuilder
// used during chart loading, and the ControlRepository that owns every
// Control for the lifetime of the process.
package control

import "strings"

// PartType identifies the kind of a single ControlId part. Its declaration
// order is the sort order used when arranging children of a UsedControlsNode
// at the same trie level.
type PartType int

const (
	Chart PartType = iota
	ChartValues
	Camera
	Object
	Scene
	Compute
	Value
	ChartStep
)

func (t PartType) String() string {
	switch t {
	case Chart:
		return "Chart"
	case ChartValues:
		return "ChartValues"
	case Camera:
		return "Camera"
	case Object:
		return "Object"
	case Scene:
		return "Scene"
	case Compute:
		return "Compute"
	case Value:
		return "Value"
	case ChartStep:
		return "ChartStep"
	default:
		return "Unknown"
	}
}

// Part is a single (kind, name) pair within a ControlId.
type Part struct {
	Kind PartType
	Name string
}

// Id is an ordered sequence of Parts identifying a Control. Ids compare
// lexicographically by (Kind, Name) pairs, part by part.
type Id struct {
	Parts []Part
}

// NewId builds an Id from a flat list of (kind, name) pairs.
func NewId(parts ...Part) Id {
	cp := make([]Part, len(parts))
	copy(cp, parts)
	return Id{Parts: cp}
}

// Add returns a new Id with one more part appended.
func (id Id) Add(kind PartType, name string) Id {
	parts := make([]Part, len(id.Parts)+1)
	copy(parts, id.Parts)
	parts[len(id.Parts)] = Part{Kind: kind, Name: name}
	return Id{Parts: parts}
}

// Prefix returns the first length parts of id. Panics if length exceeds the
// number of parts, mirroring the original's assertion.
func (id Id) Prefix(length int) Id {
	if length > len(id.Parts) {
		panic("control: prefix length exceeds id length")
	}
	parts := make([]Part, length)
	copy(parts, id.Parts[:length])
	return Id{Parts: parts}
}

// Equal reports whether id and other address the same control.
func (id Id) Equal(other Id) bool {
	if len(id.Parts) != len(other.Parts) {
		return false
	}
	for i := range id.Parts {
		if id.Parts[i] != other.Parts[i] {
			return false
		}
	}
	return true
}

// Less orders ids lexicographically by (Kind, Name) pairs, part by part,
// with a shorter id preceding a longer one that shares its prefix.
func (id Id) Less(other Id) bool {
	n := len(id.Parts)
	if len(other.Parts) < n {
		n = len(other.Parts)
	}
	for i := 0; i < n; i++ {
		a, b := id.Parts[i], other.Parts[i]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
	}
	return len(id.Parts) < len(other.Parts)
}

// String renders the id as "Kind:name.Kind:name. ...", matching the original
// Display implementation (used for logging, not for persistence).
func (id Id) String() string {
	var sb strings.Builder
	for i, p := range id.Parts {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(p.Kind.String())
		sb.WriteByte(':')
		sb.WriteString(p.Name)
	}
	return sb.String()
}

// StripChart returns a copy of id with a leading Chart part removed, if
// present. Used when serializing controls.ron: the Chart part is implicit
// from the containing folder and is re-added on load via PrependChart.
func (id Id) StripChart() Id {
	if len(id.Parts) > 0 && id.Parts[0].Kind == Chart {
		return Id{Parts: append([]Part{}, id.Parts[1:]...)}
	}
	return id
}

// PrependChart returns a copy of id with a Chart part for chartID inserted
// at the front.
func (id Id) PrependChart(chartID string) Id {
	parts := make([]Part, len(id.Parts)+1)
	parts[0] = Part{Kind: Chart, Name: chartID}
	copy(parts[1:], id.Parts)
	return Id{Parts: parts}
}
