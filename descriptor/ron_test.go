package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_StructWithNamedFields(t *testing.T) {
	v, err := Parse("t.ron", `Point(x: 1, y: 2)`)
	require.NoError(t, err)
	assert.Equal(t, "Point", v.VariantName())
	x, ok := v.Field("x")
	require.True(t, ok)
	n, err := x.AsFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(1), n)
}

func TestParse_PositionalStructStaysTuple(t *testing.T) {
	v, err := Parse("t.ron", `Fixed(1920, 1080)`)
	require.NoError(t, err)
	items := v.AsSeq()
	require.Len(t, items, 2)
	w, _ := items[0].AsUint32()
	h, _ := items[1].AsUint32()
	assert.Equal(t, uint32(1920), w)
	assert.Equal(t, uint32(1080), h)
}

func TestParse_NewtypeUnwraps(t *testing.T) {
	v, err := Parse("t.ron", `Ratio(0.5)`)
	require.NoError(t, err)
	unwrapped := v.Unwrap()
	r, err := unwrapped.AsFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), r)
}

func TestParse_BareVariant(t *testing.T) {
	v, err := Parse("t.ron", `Screen`)
	require.NoError(t, err)
	assert.Equal(t, "Screen", v.VariantName())
}

func TestParse_Seq(t *testing.T) {
	v, err := Parse("t.ron", `[1, 2, 3]`)
	require.NoError(t, err)
	items := v.AsSeq()
	require.Len(t, items, 3)
}

func TestParse_NestedStructAndComments(t *testing.T) {
	src := `
// a chart image
Image(
    id: "beauty",
    size: CanvasRelative(1.0),
    format: "Rgba16F",
)
`
	v, err := Parse("t.ron", src)
	require.NoError(t, err)
	id, _ := v.Field("id")
	s, _ := id.AsString()
	assert.Equal(t, "beauty", s)
}

func TestParse_ImplicitSomeAbsentField(t *testing.T) {
	v, err := Parse("t.ron", `Pass(id: "main")`)
	require.NoError(t, err)
	_, ok := v.Field("clear_color")
	assert.False(t, ok)
	assert.Equal(t, "main", v.FieldString("id", ""))
}

func TestParse_TrailingContentErrors(t *testing.T) {
	_, err := Parse("t.ron", `Foo(1) Bar(2)`)
	require.Error(t, err)
}
