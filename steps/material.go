// Package steps executes the three chart-level operations a render graph
// is built from: Draw (a render pass list applied to a set of items),
// Compute (a single dispatch over a double-buffered simulation state), and
// GenerateMipLevels (a full-screen-triangle blit chain). Loading a
// descriptor into the runtime types here, and compiling the pipelines they
// reference, is the loader package's job; this package only knows how to
// run them once built.
package steps

import (
	"math"

	"github.com/aedm/bitang/common"
	"github.com/aedm/bitang/control"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/image"
	"github.com/aedm/bitang/shader"
)

// MaterialPass is one compiled draw call: the pipeline and per-stage
// descriptor sets a material presents to a single render pass.
type MaterialPass struct {
	Pipeline gpu.RenderPipeline

	VertexArtifact   *shader.Artifact
	FragmentArtifact *shader.Artifact

	VertexSet   gpu.DescriptorSet
	FragmentSet gpu.DescriptorSet

	VertexUniformBuffer   gpu.Buffer
	FragmentUniformBuffer gpu.Buffer

	VertexControls   []shader.ControlBinding
	FragmentControls []shader.ControlBinding
}

// Material is opaque to the items that reference it: one MaterialPass per
// render pass id it participates in.
type Material struct {
	Passes map[string]*MaterialPass
}

// Item is one object a Draw step renders: a mesh bound to a material, with
// its own world transform and instance count, all control-driven so they
// can be keyframed.
type Item struct {
	ID       string
	Mesh     *image.Mesh
	Material *Material

	Position *control.Control // vec3
	Rotation *control.Control // vec3, Euler angles in radians, Z*X*Y order
	Instances *control.Control // scalar; round()'d to the instance count
}

// worldFromModel composes translation * rotZ * rotX * rotY from the item's
// bound controls, matching the camera rig's own axis convention.
func worldFromModel(position, rotation [3]float32) [16]float32 {
	var t, rz, rx, ry, tmp1, tmp2, out [16]float32
	common.Translate4(t[:], position[0], position[1], position[2])
	common.RotateZ4(rz[:], rotation[2])
	common.RotateX4(rx[:], rotation[0])
	common.RotateY4(ry[:], rotation[1])
	common.Mul4(tmp1[:], rz[:], rx[:])
	common.Mul4(tmp2[:], tmp1[:], ry[:])
	common.Mul4(out[:], t[:], tmp2[:])
	return out
}

func roundToInstanceCount(v float32) uint32 {
	r := math.Round(float64(v))
	if r < 0 {
		return 0
	}
	return uint32(r)
}
