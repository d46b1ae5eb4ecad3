package shader

import (
	"testing"

	"github.com/aedm/bitang/control"
	"github.com/aedm/bitang/globals"
	"github.com/stretchr/testify/assert"
)

func TestPackUniformBuffer_WritesGlobalsAndLocals(t *testing.T) {
	g := globals.New()
	g.AppTime = 1.5

	speed := control.NewControl(control.NewId(control.Part{Kind: control.Value, Name: "speed"}), [4]float32{3, 0, 0, 0})

	a := &Artifact{
		UniformBufferSize: 16,
		GlobalUniforms:    []GlobalUniformMember{{ByteOffset: 0, Kind: globals.AppTime}},
		LocalUniforms:     []LocalUniformMember{{ByteOffset: 4, F32Count: 1, Name: "speed"}},
	}

	buf := PackUniformBuffer(a, g, []ControlBinding{{MemberIndex: 0, Source: speed}})
	assert.Equal(t, float32(1.5), buf[0])
	assert.Equal(t, float32(3), buf[1])
}

func TestPackUniformBuffer_EmptyWhenNoUniformBuffer(t *testing.T) {
	a := &Artifact{UniformBufferSize: 0}
	buf := PackUniformBuffer(a, globals.New(), nil)
	assert.Nil(t, buf)
}
