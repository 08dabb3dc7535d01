package registry

import (
	"github.com/Carmen-Shannon/oxyscope/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

// Uniform is a registry-owned uniform block: its current logical data and the
// backing GPU buffer. The buffer's byte length is fixed at registration from
// the initial data's layout; updates must serialize to exactly that length.
type Uniform interface {
	// Label returns the uniform's display name.
	Label() string

	// Data returns the current logical contents.
	Data() uniform.Data

	// Buffer returns the backing GPU buffer.
	Buffer() *wgpu.Buffer

	// Size returns the buffer's fixed byte length.
	Size() int
}

type uniformEntry struct {
	label  string
	data   uniform.Data
	buffer *wgpu.Buffer
	size   int
}

var _ Uniform = &uniformEntry{}

func (u *uniformEntry) Label() string {
	return u.label
}

func (u *uniformEntry) Data() uniform.Data {
	return u.data
}

func (u *uniformEntry) Buffer() *wgpu.Buffer {
	return u.buffer
}

func (u *uniformEntry) Size() int {
	return u.size
}
