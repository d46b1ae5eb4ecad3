package wgslcompiler

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	fieldRegex       = regexp.MustCompile(`(?:@\w+(?:\([^)]*\))?\s*)*(\w+)\s*:\s*(.+)`)

	// bindDeclRegex captures group, binding, optional address space, var
	// name, and type from `@group(N) @binding(M) var<space> name: type;`.
	bindDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// resource is one reflected @group/@binding declaration.
type resource struct {
	group, binding int
	addressSpace   string
	varName        string
	typeName       string
}

func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func stripLineComments(source string) string {
	var sb strings.Builder
	for _, line := range strings.Split(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func stripBlockComments(source string) string {
	var sb strings.Builder
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) && source[i] == '/' && source[i+1] == '*' {
			depth++
			i++
			continue
		}
		if i+1 < len(source) && source[i] == '*' && source[i+1] == '/' && depth > 0 {
			depth--
			i++
			continue
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

// splitAtTopLevelCommas splits on commas not nested inside angle brackets,
// so `array<Foo, 6>` stays one field.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, m := range matches {
		var fields []parsedField
		for _, line := range splitAtTopLevelCommas(m[2]) {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			fm := fieldRegex.FindStringSubmatch(line)
			if fm == nil {
				continue
			}
			fields = append(fields, parsedField{name: fm[1], typeName: strings.TrimSpace(fm[2])})
		}
		structs = append(structs, parsedStruct{name: m[1], fields: fields})
	}
	return structs
}

func parseResources(source string) []resource {
	matches := bindDeclRegex.FindAllStringSubmatch(source, -1)
	out := make([]resource, 0, len(matches))
	for _, m := range matches {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		out = append(out, resource{
			group:        group,
			binding:      binding,
			addressSpace: strings.TrimSpace(m[3]),
			varName:      strings.TrimSpace(m[4]),
			typeName:     strings.TrimSpace(m[5]),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].binding < out[j].binding })
	return out
}

func resolveTypeLayout(typeName string, known map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if l, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return l, true
	}
	if l, ok := known[typeName]; ok {
		return l, true
	}
	if strings.HasPrefix(typeName, "array<") && strings.HasSuffix(typeName, ">") {
		inner := typeName[len("array<") : len(typeName)-1]
		parts := strings.SplitN(inner, ",", 2)
		elem, ok := resolveTypeLayout(strings.TrimSpace(parts[0]), known)
		if !ok || len(parts) != 2 {
			return wgslTypeLayout{}, false
		}
		count, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return wgslTypeLayout{}, false
		}
		stride := roundUp(elem.align, elem.size)
		return wgslTypeLayout{count * stride, elem.align}, true
	}
	return wgslTypeLayout{}, false
}

func roundUp(align, value uint64) uint64 {
	if align == 0 {
		return value
	}
	return (value + align - 1) &^ (align - 1)
}

// structLayout is a struct's total size/align plus each field's byte offset,
// in declaration order.
type structLayout struct {
	wgslTypeLayout
	fieldOffsets []uint64
}

func computeStructLayout(ps parsedStruct, known map[string]wgslTypeLayout) (structLayout, bool) {
	var offsets []uint64
	offset, maxAlign := uint64(0), uint64(1)
	for _, f := range ps.fields {
		layout, ok := resolveTypeLayout(f.typeName, known)
		if !ok {
			return structLayout{}, false
		}
		offset = roundUp(layout.align, offset)
		offsets = append(offsets, offset)
		offset += layout.size
		if layout.align > maxAlign {
			maxAlign = layout.align
		}
	}
	return structLayout{wgslTypeLayout{roundUp(maxAlign, offset), maxAlign}, offsets}, true
}

// computeStructSizes resolves every struct's layout, iterating until no more
// progress is made so a struct referencing another struct by name resolves
// once its dependency is known.
func computeStructSizes(structs []parsedStruct) map[string]structLayout {
	resolved := make(map[string]structLayout, len(structs))
	known := make(map[string]wgslTypeLayout, len(structs))
	remaining := structs
	for {
		progressed := false
		var next []parsedStruct
		for _, ps := range remaining {
			if sl, ok := computeStructLayout(ps, known); ok {
				resolved[ps.name] = sl
				known[ps.name] = sl.wgslTypeLayout
				progressed = true
			} else {
				next = append(next, ps)
			}
		}
		remaining = next
		if !progressed || len(remaining) == 0 {
			break
		}
	}
	return resolved
}

func isSampledTexture(typeName string) bool {
	base, _ := splitTypeParams(typeName)
	for _, p := range wgslSampledTexturePrefixes {
		if base == p {
			return true
		}
	}
	return false
}

func splitTypeParams(typeName string) (base, params string) {
	before, after, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return before, strings.TrimSuffix(after, ">")
}
