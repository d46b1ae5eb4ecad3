package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/image"
)

func TestMipmap_BlitsEveryLevelAboveZero(t *testing.T) {
	dev := &fakeDevice{}
	img := image.NewAttachment("beauty", dev, gpu.Rgba16F, image.SizeRule{Kind: image.Fixed, W: 256, H: 256}, true)
	require.NoError(t, img.EnforceSizeRule(256, 256))

	levels := img.MipLevels()
	require.Equal(t, uint32(9), levels) // 256 -> 1 takes 9 levels

	sets := make([]gpu.DescriptorSet, levels-1)
	for i := range sets {
		sets[i] = &fakeDescriptorSet{}
	}

	m := &Mipmap{Image: img, Pipeline: &fakeRenderPipeline{}, DescriptorSets: sets}
	enc := &fakeEncoder{}
	require.NoError(t, m.Execute(enc))

	require.Len(t, enc.renderPasses, int(levels-1))
	for i, rp := range enc.renderPasses {
		assert.True(t, rp.ended)
		require.Len(t, rp.draws, 1)
		assert.Equal(t, uint32(3), rp.draws[0].vertexCount)
		expected := float32(256 >> uint(i+1))
		assert.Equal(t, expected, rp.viewportW)
	}
}
