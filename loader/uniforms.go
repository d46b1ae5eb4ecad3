package loader

import (
	"github.com/aedm/bitang/apperr"
	"github.com/aedm/bitang/control"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/shader"
)

// bindUniforms allocates artifact's uniform buffer (nil if it declares
// none) and resolves each of its LocalUniforms to a Control: controlMap
// gives an explicit member-name -> ChartValues-control-name override (used
// by Compute steps, whose shader member names don't always match an
// authored control name); a member absent from controlMap binds directly
// to the ChartValues control sharing its own name, the convention every
// material shader's uniform members follow.
func (l *Loader) bindUniforms(builder *control.Builder, chartRootID control.Id, artifact *shader.Artifact, controlMap map[string]string) (gpu.Buffer, []shader.ControlBinding, error) {
	if artifact.UniformBufferSize == 0 {
		return nil, nil, nil
	}

	buf, err := l.Device.CreateBuffer(gpu.BufferUsageUniform|gpu.BufferUsageCopyDst, uint64(artifact.UniformBufferSize))
	if err != nil {
		return nil, nil, apperr.New(apperr.GPU, "uniform buffer", err)
	}

	bindings := make([]shader.ControlBinding, 0, len(artifact.LocalUniforms))
	for i, m := range artifact.LocalUniforms {
		name := m.Name
		if mapped, ok := controlMap[m.Name]; ok {
			name = mapped
		}
		id := chartRootID.Add(control.ChartValues, name)
		ctrl := builder.GetWithDefault(id, int(m.F32Count), [4]float32{})
		bindings = append(bindings, shader.ControlBinding{MemberIndex: i, Source: ctrl})
	}
	return buf, bindings, nil
}
