// package uniform implements the logical representation of GPU uniform blocks
// and their byte-exact serialization under WGSL uniform alignment rules.
package uniform

import (
	"github.com/Carmen-Shannon/oxyscope/common"
)

// FieldKind identifies the logical type of a uniform field. The set is closed:
// the layout table in Layout must stay exhaustive over these kinds.
type FieldKind uint8

const (
	// Vec2f is a 2-component float vector (8 bytes, 8-byte aligned).
	Vec2f FieldKind = iota
	// Vec3f is a 3-component float vector, padded to 16 bytes per WGSL uniform
	// rules for 3-component vectors.
	Vec3f
	// Vec4f is a 4-component float vector (16 bytes, 16-byte aligned).
	Vec4f
	// Rgb is a linear RGB color, laid out identically to Vec3f.
	Rgb
	// Rgba is a linear RGBA color, laid out identically to Vec4f.
	Rgba
	// Mat4x4f is a column-major 4x4 float matrix (64 bytes, 16-byte aligned,
	// stored as 4 consecutive 16-byte columns).
	Mat4x4f
)

// String returns the WGSL-flavored name of the field kind.
func (k FieldKind) String() string {
	switch k {
	case Vec2f:
		return "vec2<f32>"
	case Vec3f:
		return "vec3<f32>"
	case Vec4f:
		return "vec4<f32>"
	case Rgb:
		return "rgb"
	case Rgba:
		return "rgba"
	case Mat4x4f:
		return "mat4x4<f32>"
	default:
		return "unknown"
	}
}

// Layout returns the (alignment, size) pair for the field kind in bytes,
// matching the std140-style rules WGSL applies to uniform address space.
//
// Returns:
//   - int: required byte alignment
//   - int: serialized byte size (including the trailing pad lane of
//     3-component kinds)
func (k FieldKind) Layout() (int, int) {
	switch k {
	case Vec2f:
		return 8, 8
	case Vec3f, Rgb, Vec4f, Rgba:
		return 16, 16
	case Mat4x4f:
		return 16, 64
	default:
		return 1, 0
	}
}

// Lanes returns how many float32 lanes of a Field's Values array carry data
// for this kind.
func (k FieldKind) Lanes() int {
	switch k {
	case Vec2f:
		return 2
	case Vec3f, Rgb:
		return 3
	case Vec4f, Rgba:
		return 4
	case Mat4x4f:
		return 16
	default:
		return 0
	}
}

// Field is one named, typed value inside a uniform block. Only the first
// lanes() entries of Values are meaningful for the field's kind.
type Field struct {
	// Name is the field's display name, matching the WGSL struct member.
	Name string

	// Kind is the field's logical type.
	Kind FieldKind

	// Values holds the field's float lanes. Mat4x4f uses all 16 in
	// column-major order; vector kinds use a prefix.
	Values [16]float32
}

// NewVec2 creates a Vec2f field.
func NewVec2(name string, v [2]float32) Field {
	return Field{Name: name, Kind: Vec2f, Values: [16]float32{v[0], v[1]}}
}

// NewVec3 creates a Vec3f field.
func NewVec3(name string, v [3]float32) Field {
	return Field{Name: name, Kind: Vec3f, Values: [16]float32{v[0], v[1], v[2]}}
}

// NewVec4 creates a Vec4f field.
func NewVec4(name string, v [4]float32) Field {
	return Field{Name: name, Kind: Vec4f, Values: [16]float32{v[0], v[1], v[2], v[3]}}
}

// NewRgb creates an Rgb color field.
func NewRgb(name string, color [3]float32) Field {
	return Field{Name: name, Kind: Rgb, Values: [16]float32{color[0], color[1], color[2]}}
}

// NewRgba creates an Rgba color field.
func NewRgba(name string, color [4]float32) Field {
	return Field{Name: name, Kind: Rgba, Values: [16]float32{color[0], color[1], color[2], color[3]}}
}

// NewMat4 creates a Mat4x4f field from a column-major flat matrix.
func NewMat4(name string, m [16]float32) Field {
	return Field{Name: name, Kind: Mat4x4f, Values: m}
}

// write appends the field's serialized bytes to buf. 3-component kinds are
// written as 4 lanes with a zero trailing lane.
func (f Field) write(buf []byte) []byte {
	switch f.Kind {
	case Vec2f:
		return append(buf, common.SliceToBytes(f.Values[:2])...)
	case Vec3f, Rgb:
		padded := [4]float32{f.Values[0], f.Values[1], f.Values[2], 0}
		return append(buf, common.SliceToBytes(padded[:])...)
	case Vec4f, Rgba:
		return append(buf, common.SliceToBytes(f.Values[:4])...)
	case Mat4x4f:
		return append(buf, common.SliceToBytes(f.Values[:16])...)
	default:
		return buf
	}
}

// Data is an ordered uniform block. Field order is significant: it defines the
// memory order of the serialized block and is never reordered.
type Data struct {
	Fields []Field
}

// Bytes serializes the block under WGSL uniform alignment rules.
//
// A running cursor starts at 0 with a struct alignment of 1. Each field first
// pads the cursor up to its own alignment, then writes its bytes; the struct
// alignment accumulates the max field alignment seen. After the last field the
// buffer is padded up to the struct alignment. The result is deterministic:
// the same field sequence always produces byte-identical output.
//
// Returns:
//   - []byte: the serialized block
func (d Data) Bytes() []byte {
	var buf []byte
	structAlign := 1

	for _, field := range d.Fields {
		align, _ := field.Kind.Layout()
		if align > structAlign {
			structAlign = align
		}

		buf = padTo(buf, align)
		buf = field.write(buf)
	}

	return padTo(buf, structAlign)
}

// Size returns the serialized byte length of the block without keeping the
// serialized bytes.
//
// Returns:
//   - int: total byte length including trailing padding
func (d Data) Size() int {
	cursor := 0
	structAlign := 1

	for _, field := range d.Fields {
		align, size := field.Kind.Layout()
		if align > structAlign {
			structAlign = align
		}
		cursor = nextMultiple(cursor, align) + size
	}

	return nextMultiple(cursor, structAlign)
}

func padTo(buf []byte, align int) []byte {
	target := nextMultiple(len(buf), align)
	for len(buf) < target {
		buf = append(buf, 0)
	}
	return buf
}

func nextMultiple(n, align int) int {
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + align - rem
}
