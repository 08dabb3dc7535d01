package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/Carmen-Shannon/oxyscope/engine/gfx/gfxtest"
	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCamera(t *testing.T, options ...CameraBuilderOption) (Camera, registry.Registry, *gfxtest.Device) {
	t.Helper()
	device := &gfxtest.Device{}
	reg := registry.NewRegistry(device)
	cam, err := NewCamera(reg, "camera", options...)
	require.NoError(t, err)
	return cam, reg, device
}

func TestNewCameraRegistersUniform(t *testing.T) {
	cam, reg, _ := newCamera(t)

	uni, ok := reg.GetUniform(cam.Uniform())
	require.True(t, ok)
	assert.Equal(t, "camera", uni.Label())

	fields := uni.Data().Fields
	require.Len(t, fields, 5)
	assert.Equal(t, "view_position", fields[0].Name)
	assert.Equal(t, "view", fields[1].Name)
	assert.Equal(t, "view_proj", fields[2].Name)
	assert.Equal(t, "inv_proj", fields[3].Name)
	assert.Equal(t, "inv_view", fields[4].Name)

	// vec3 padded to 16 bytes plus four mat4s.
	assert.Equal(t, 16+4*64, uni.Size())
}

func TestEyeOrbitsTarget(t *testing.T) {
	cam, _, _ := newCamera(t,
		WithTarget([3]float32{1, 2, 3}),
		WithOrbit(0, 0, 4),
	)

	// Yaw 0, pitch 0 puts the eye on the target's +Z axis.
	eye := cam.Eye()
	assert.InDelta(t, 1, eye[0], 1e-5)
	assert.InDelta(t, 2, eye[1], 1e-5)
	assert.InDelta(t, 7, eye[2], 1e-5)

	cam.Orbit(math32.Pi/2, 0)
	eye = cam.Eye()
	assert.InDelta(t, 5, eye[0], 1e-5)
	assert.InDelta(t, 2, eye[1], 1e-5)
	assert.InDelta(t, 3, eye[2], 1e-5)
}

func TestOrbitClampsPitch(t *testing.T) {
	cam, _, _ := newCamera(t, WithOrbit(0, 0, 5))

	cam.Orbit(0, 10)
	eye := cam.Eye()
	assert.Less(t, eye[1], float32(5), "eye never reaches the pole")
	assert.Greater(t, eye[1], float32(4.9))
}

func TestZoomClampsDistance(t *testing.T) {
	cam, _, _ := newCamera(t, WithOrbit(0, 0, 1))

	cam.Zoom(100)
	eye := cam.Eye()
	dist := math32.Sqrt(eye[0]*eye[0] + eye[1]*eye[1] + eye[2]*eye[2])
	assert.InDelta(t, minDistance, dist, 1e-5)
}

func TestSyncWritesUniform(t *testing.T) {
	cam, reg, device := newCamera(t)

	uni, _ := reg.GetUniform(cam.Uniform())
	before := append([]byte(nil), device.BufferContents[uni.Buffer()]...)

	cam.Orbit(0.5, 0.25)
	cam.Zoom(1)
	require.NoError(t, cam.Sync())

	after := device.BufferContents[uni.Buffer()]
	assert.NotEqual(t, before, after, "matrices change after movement")
	assert.Len(t, after, uni.Size(), "update keeps the fixed byte length")
}

func TestResizeChangesProjection(t *testing.T) {
	cam, reg, device := newCamera(t, WithAspectRatio(1))
	require.NoError(t, cam.Sync())

	uni, _ := reg.GetUniform(cam.Uniform())
	before := append([]byte(nil), device.BufferContents[uni.Buffer()]...)

	cam.Resize(common.NewSize2d(1920, 1080))
	require.NoError(t, cam.Sync())

	assert.NotEqual(t, before, device.BufferContents[uni.Buffer()])
}

func TestPanShiftsTarget(t *testing.T) {
	cam, _, _ := newCamera(t, WithOrbit(0, 0, 2))

	cam.Pan(1, 0.5)
	eye := cam.Eye()
	assert.InDelta(t, 1, eye[0], 1e-5)
	assert.InDelta(t, 0.5, eye[1], 1e-5)
	assert.InDelta(t, 2, eye[2], 1e-5)
}
