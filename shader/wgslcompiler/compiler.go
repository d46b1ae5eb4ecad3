package wgslcompiler

import (
	"regexp"
	"strings"

	"github.com/aedm/bitang/apperr"
	"github.com/aedm/bitang/globals"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/shader"
)

var includeRegex = regexp.MustCompile(`^[ \t]*#include\s+"([^"]+)"[ \t]*$`)

// Compiler is the default shader.Compiler: it expands #include directives
// and macros textually, creates the GPU module, and reflects bindings out
// of the resulting WGSL source.
type Compiler struct {
	device gpu.Device
}

// New returns a Compiler that creates shader modules on device.
func New(device gpu.Device) *Compiler {
	return &Compiler{device: device}
}

var _ shader.Compiler = (*Compiler)(nil)

func (c *Compiler) Compile(stage gpu.Stage, path string, macros []shader.Macro, resolveInclude shader.IncludeResolver) (*shader.Artifact, []shader.IncludeRef, error) {
	source, chain, err := expandIncludes(path, resolveInclude, nil)
	if err != nil {
		return nil, nil, apperr.New(apperr.Compile, path, err)
	}
	source = applyMacros(source, macros)

	module, err := c.device.CreateShaderModule(stage, source)
	if err != nil {
		return nil, nil, apperr.New(apperr.Compile, path, err)
	}

	artifact := reflectArtifact(source, stage, module)
	return artifact, chain, nil
}

// expandIncludes reads path via resolve, recursively substituting every
// `#include "child"` line with child's expanded text, and returns the
// concatenated source plus the ordered include chain (path first). stack
// holds the ancestor paths of the current include, used only to reject
// cycles; a diamond (the same header included from two branches) is fine.
func expandIncludes(path string, resolve shader.IncludeResolver, stack []string) (string, []shader.IncludeRef, error) {
	for _, p := range stack {
		if p == path {
			return "", nil, apperr.New(apperr.Compile, path, errIncludeCycle)
		}
	}
	content, hash, err := resolve(path)
	if err != nil {
		return "", nil, err
	}
	chain := []shader.IncludeRef{{Path: path, Hash: hash}}
	childStack := append(append([]string{}, stack...), path)

	var out strings.Builder
	for i, line := range strings.Split(string(content), "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		m := includeRegex.FindStringSubmatch(line)
		if m == nil {
			out.WriteString(line)
			continue
		}
		childSource, childChain, err := expandIncludes(m[1], resolve, childStack)
		if err != nil {
			return "", nil, err
		}
		out.WriteString(childSource)
		chain = append(chain, childChain...)
	}
	return out.String(), chain, nil
}

var (
	ifdefRegex  = regexp.MustCompile(`^[ \t]*#ifdef\s+(\w+)[ \t]*$`)
	ifndefRegex = regexp.MustCompile(`^[ \t]*#ifndef\s+(\w+)[ \t]*$`)
	elseRegex   = regexp.MustCompile(`^[ \t]*#else[ \t]*$`)
	endifRegex  = regexp.MustCompile(`^[ \t]*#endif[ \t]*$`)
)

// applyMacros strips single-level #ifdef/#ifndef/#else/#endif blocks per
// whether each macro is defined, then substitutes every remaining
// whole-word occurrence of a macro name with its value (so
// IMAGE_BOUND_TO_SAMPLER_<NAME>=1 reads as a literal 1 in an `if` the
// shader author writes around an optional sampling branch).
func applyMacros(source string, macros []shader.Macro) string {
	defined := make(map[string]string, len(macros))
	for _, m := range macros {
		defined[m.Name] = m.Value
	}

	var out []string
	inConditional, active, takenBranch := false, true, false
	for _, line := range strings.Split(source, "\n") {
		switch {
		case ifdefRegex.MatchString(line):
			name := ifdefRegex.FindStringSubmatch(line)[1]
			_, ok := defined[name]
			inConditional, active, takenBranch = true, ok, ok
			continue
		case ifndefRegex.MatchString(line):
			name := ifndefRegex.FindStringSubmatch(line)[1]
			_, ok := defined[name]
			inConditional, active, takenBranch = true, !ok, !ok
			continue
		case inConditional && elseRegex.MatchString(line):
			active = !takenBranch
			continue
		case inConditional && endifRegex.MatchString(line):
			inConditional, active = false, true
			continue
		}
		if active {
			out = append(out, line)
		}
	}
	source = strings.Join(out, "\n")

	for name, value := range defined {
		source = regexp.MustCompile(`\b`+regexp.QuoteMeta(name)+`\b`).ReplaceAllString(source, value)
	}
	return source
}

// reflectArtifact extracts the uniform buffer layout (split into globals and
// controls), sampled-texture bindings, and storage-buffer bindings straight
// out of source's @group/@binding declarations.
func reflectArtifact(source string, stage gpu.Stage, module gpu.ShaderModule) *shader.Artifact {
	cleaned := stripComments(source)
	structs := parseStructBlocks(cleaned)
	structSizes := computeStructSizes(structs)
	byName := make(map[string]parsedStruct, len(structs))
	for _, ps := range structs {
		byName[ps.name] = ps
	}
	known := make(map[string]wgslTypeLayout, len(structSizes))
	for name, sl := range structSizes {
		known[name] = sl.wgslTypeLayout
	}

	artifact := &shader.Artifact{Module: module, Stage: stage}

	for _, r := range parseResources(cleaned) {
		switch {
		case r.addressSpace == "uniform":
			ps, ok := byName[r.typeName]
			if !ok {
				continue
			}
			layout, ok := structSizes[r.typeName]
			if !ok {
				continue
			}
			artifact.UniformBufferSize = uint32(layout.size)
			for i, f := range ps.fields {
				offset := uint32(layout.fieldOffsets[i])
				if strings.HasPrefix(f.name, "g_") {
					if kind, ok := globals.KindByName(strings.TrimPrefix(f.name, "g_")); ok {
						artifact.GlobalUniforms = append(artifact.GlobalUniforms, shader.GlobalUniformMember{ByteOffset: offset, Kind: kind})
						continue
					}
				}
				f32Count := uint32(4)
				if fl, ok := resolveTypeLayout(f.typeName, known); ok {
					f32Count = uint32(fl.size / 4)
				}
				artifact.LocalUniforms = append(artifact.LocalUniforms, shader.LocalUniformMember{ByteOffset: offset, F32Count: f32Count, Name: f.name})
			}
		case strings.HasPrefix(r.addressSpace, "storage"):
			artifact.StorageBuffers = append(artifact.StorageBuffers, shader.StorageBufferBinding{Name: r.varName, Binding: uint32(r.binding)})
		case r.addressSpace == "" && isSampledTexture(r.typeName):
			artifact.Samplers = append(artifact.Samplers, shader.SamplerBinding{Name: r.varName, Binding: uint32(r.binding)})
		}
	}
	return artifact
}
