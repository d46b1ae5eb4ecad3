package control

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aedm/bitang/descriptor"
)

// partTypeNames mirrors PartType.String(), used both directions for
// controls.ron persistence so a part's kind round-trips as the same
// identifier a reader of chart.ron/material.ron would recognize.
var partTypeNames = [...]string{
	Chart:       "Chart",
	ChartValues: "ChartValues",
	Camera:      "Camera",
	Object:      "Object",
	Scene:       "Scene",
	Compute:     "Compute",
	Value:       "Value",
	ChartStep:   "ChartStep",
}

func partTypeByName(name string) (PartType, bool) {
	for i, n := range partTypeNames {
		if n == name {
			return PartType(i), true
		}
	}
	return 0, false
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// EncodeControls renders chart's persisted controls as a controls.ron
// document (§6, §8 round-trip property). Each control's id has its leading
// Chart part stripped, since the chart id is implicit in the containing
// charts/<chart_id>/ folder and is restored by DecodeControls via
// PrependChart.
func EncodeControls(controls []*Control) string {
	var sb strings.Builder
	sb.WriteString("ControlFile(\n    controls: [\n")
	for _, c := range controls {
		id := c.ID().StripChart()
		sb.WriteString("        StoredControl(\n            id: [")
		for i, part := range id.Parts {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "Part(kind: %s, name: %q)", partTypeNames[part.Kind], part.Name)
		}
		sb.WriteString("],\n            components: [\n")
		for _, comp := range c.Components() {
			fmt.Fprintf(&sb, "                StoredComponent(value: %s, use_spline: %s, spline: [",
				formatFloat(comp.Value), formatBool(comp.UseSpline))
			for i, pt := range comp.Spline.Points {
				if i > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "SplinePoint(time: %s, value: %s, is_linear_after: %s)",
					formatFloat(pt.Time), formatFloat(pt.Value), formatBool(pt.IsLinearAfter))
			}
			sb.WriteString("]),\n")
		}
		sb.WriteString("            ],\n        ),\n")
	}
	sb.WriteString("    ],\n)")
	return sb.String()
}

// StoredControl is one decoded controls.ron entry: the chart-relative id
// (Chart part not yet prepended) and its four persisted components.
type StoredControl struct {
	ID         Id
	Components [4]Component
}

// DecodeControls parses a controls.ron document into its stored entries,
// chart-relative (callers prepend the owning chart id via Id.PrependChart
// before importing into a Repository).
func DecodeControls(path, src string) ([]StoredControl, error) {
	root, err := descriptor.Parse(path, src)
	if err != nil {
		return nil, err
	}
	controlsField, ok := root.Field("controls")
	if !ok {
		return nil, nil
	}
	var out []StoredControl
	for _, cv := range controlsField.AsSeq() {
		idField, _ := cv.Field("id")
		var parts []Part
		for _, pv := range idField.AsSeq() {
			// EncodeControls writes the kind as a bare identifier, which
			// parses as a unit variant rather than a string.
			kindVal, _ := pv.Field("kind")
			kindName := kindVal.VariantName()
			kind, ok := partTypeByName(kindName)
			if !ok {
				return nil, fmt.Errorf("control: unknown part kind %q in %s", kindName, path)
			}
			parts = append(parts, Part{Kind: kind, Name: pv.FieldString("name", "")})
		}

		compsField, _ := cv.Field("components")
		var components [4]Component
		for i, compv := range compsField.AsSeq() {
			if i >= 4 {
				break
			}
			comp := Component{
				Value:     compv.FieldFloat32("value", 0),
				UseSpline: compv.FieldBool("use_spline", false),
			}
			if splineField, ok := compv.Field("spline"); ok {
				for _, ptv := range splineField.AsSeq() {
					comp.Spline.Points = append(comp.Spline.Points, Point{
						Time:          ptv.FieldFloat32("time", 0),
						Value:         ptv.FieldFloat32("value", 0),
						IsLinearAfter: ptv.FieldBool("is_linear_after", false),
					})
				}
			}
			components[i] = comp
		}
		out = append(out, StoredControl{ID: Id{Parts: parts}, Components: components})
	}
	return out, nil
}

// ImportInto installs every stored control into repo, prepending chartID as
// each id's leading Chart part.
func ImportInto(repo *Repository, chartID string, stored []StoredControl) {
	for _, sc := range stored {
		repo.Import(sc.ID.PrependChart(chartID), sc.Components)
	}
}
