package uniform

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asFloats(t *testing.T, buf []byte) []float32 {
	t.Helper()
	require.Zero(t, len(buf)%4, "serialized length must be a whole number of float lanes")
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&buf[0])), len(buf)/4)
}

func TestBytesPadsVec2ToVec4Alignment(t *testing.T) {
	data := Data{Fields: []Field{
		NewVec2("uv", [2]float32{1, 2}),
		NewVec4("tint", [4]float32{3, 4, 5, 6}),
	}}

	assert.Equal(t, []float32{1, 2, 0, 0, 3, 4, 5, 6}, asFloats(t, data.Bytes()))
}

func TestBytesPadsVec2ToRgbAlignment(t *testing.T) {
	data := Data{Fields: []Field{
		NewVec2("uv", [2]float32{1.5, 2.5}),
		NewRgb("color", [3]float32{0.1, 0.2, 0.3}),
	}}

	assert.Equal(t, []float32{1.5, 2.5, 0, 0, 0.1, 0.2, 0.3, 0}, asFloats(t, data.Bytes()))
}

func TestBytesNoPaddingBetweenVec3AndVec2(t *testing.T) {
	data := Data{Fields: []Field{
		NewVec3("position", [3]float32{9, 8, 7}),
		NewVec2("scale", [2]float32{0.25, 0.5}),
	}}

	assert.Equal(t, []float32{9, 8, 7, 0, 0.25, 0.5, 0, 0}, asFloats(t, data.Bytes()))
}

func TestBytesMat4ColumnsAreContiguous(t *testing.T) {
	var m [16]float32
	for i := range m {
		m[i] = float32(i)
	}
	data := Data{Fields: []Field{
		NewVec2("offset", [2]float32{1, 2}),
		NewMat4("transform", m),
	}}

	floats := asFloats(t, data.Bytes())
	require.Len(t, floats, 4+16)
	assert.Equal(t, []float32{1, 2, 0, 0}, floats[:4])
	assert.Equal(t, m[:], floats[4:])
}

func TestBytesIsIdempotent(t *testing.T) {
	data := Data{Fields: []Field{
		NewRgba("base", [4]float32{0.5, 0.25, 0.125, 1}),
		NewVec2("uv", [2]float32{3, 4}),
		NewVec3("normal", [3]float32{0, 1, 0}),
	}}

	first := data.Bytes()
	for range 10 {
		assert.Equal(t, first, data.Bytes())
	}
}

func TestBytesLengthIsMultipleOfStructAlign(t *testing.T) {
	cases := []struct {
		name  string
		data  Data
		align int
	}{
		{"lone vec2", Data{Fields: []Field{NewVec2("uv", [2]float32{1, 2})}}, 8},
		{"vec2 then vec4", Data{Fields: []Field{
			NewVec2("uv", [2]float32{1, 2}),
			NewVec4("tint", [4]float32{3, 4, 5, 6}),
		}}, 16},
		{"mat4 then vec2", Data{Fields: []Field{
			NewMat4("m", [16]float32{}),
			NewVec2("uv", [2]float32{1, 2}),
		}}, 16},
		{"empty", Data{}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := tc.data.Bytes()
			assert.Zero(t, len(buf)%tc.align)
		})
	}
}

func TestSizeMatchesBytesLength(t *testing.T) {
	cases := []Data{
		{},
		{Fields: []Field{NewVec2("uv", [2]float32{1, 2})}},
		{Fields: []Field{
			NewVec2("uv", [2]float32{1, 2}),
			NewVec4("tint", [4]float32{3, 4, 5, 6}),
		}},
		{Fields: []Field{
			NewVec3("p", [3]float32{1, 2, 3}),
			NewVec2("s", [2]float32{4, 5}),
			NewMat4("m", [16]float32{}),
		}},
	}

	for _, data := range cases {
		assert.Equal(t, len(data.Bytes()), data.Size())
	}
}

func TestFieldOrderIsPreserved(t *testing.T) {
	a := Data{Fields: []Field{
		NewVec4("first", [4]float32{1, 1, 1, 1}),
		NewVec4("second", [4]float32{2, 2, 2, 2}),
	}}
	b := Data{Fields: []Field{
		NewVec4("second", [4]float32{2, 2, 2, 2}),
		NewVec4("first", [4]float32{1, 1, 1, 1}),
	}}

	assert.NotEqual(t, a.Bytes(), b.Bytes())
}

func TestKindLanes(t *testing.T) {
	assert.Equal(t, 2, Vec2f.Lanes())
	assert.Equal(t, 3, Vec3f.Lanes())
	assert.Equal(t, 3, Rgb.Lanes())
	assert.Equal(t, 4, Vec4f.Lanes())
	assert.Equal(t, 4, Rgba.Lanes())
	assert.Equal(t, 16, Mat4x4f.Lanes())
}
