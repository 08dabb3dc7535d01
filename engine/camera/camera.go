// package camera implements the inspector's orbit camera: a viewpoint that
// revolves around a target point and publishes its matrices through a
// registry uniform consumed by the scene shaders.
package camera

import (
	"fmt"

	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/Carmen-Shannon/oxyscope/engine/uniform"
	"github.com/chewxy/math32"
)

// pitchLimit keeps the camera off the poles so the up vector never becomes
// parallel to the view direction.
const pitchLimit = math32.Pi/2 - 0.01

const minDistance = 0.1

// camera is the implementation of the Camera interface.
type camera struct {
	registry registry.Registry
	handle   registry.UniformHandle

	target   [3]float32
	yaw      float32
	pitch    float32
	distance float32

	fovY   float32
	near   float32
	far    float32
	aspect float32
}

// Camera is an orbit camera around a target point. Movement methods only
// update the camera's state; Sync writes the derived matrices into the
// camera's registry uniform.
type Camera interface {
	// Uniform returns the handle of the camera's registry uniform. Bind it
	// wherever a shader consumes the camera matrices.
	//
	// Returns:
	//   - registry.UniformHandle: the camera uniform
	Uniform() registry.UniformHandle

	// Eye returns the camera's current world-space position.
	//
	// Returns:
	//   - [3]float32: the eye position
	Eye() [3]float32

	// Orbit revolves the camera around its target. Pitch is clamped short of
	// the poles.
	//
	// Parameters:
	//   - deltaYaw: the yaw change in radians
	//   - deltaPitch: the pitch change in radians
	Orbit(deltaYaw, deltaPitch float32)

	// Zoom moves the camera along its view direction. Positive deltas move
	// closer; the distance never drops below a small minimum.
	//
	// Parameters:
	//   - delta: the distance change
	Zoom(delta float32)

	// Pan shifts the target point in the camera's view plane.
	//
	// Parameters:
	//   - deltaX: movement along the camera's right axis
	//   - deltaY: movement along the camera's up axis
	Pan(deltaX, deltaY float32)

	// SetTarget repositions the point the camera orbits.
	//
	// Parameters:
	//   - target: the new target in world space
	SetTarget(target [3]float32)

	// Resize updates the projection's aspect ratio for a new viewport size.
	//
	// Parameters:
	//   - size: the new viewport size in pixels
	Resize(size common.Size2d)

	// Sync recomputes the view and projection matrices from the current state
	// and writes them into the camera uniform.
	//
	// Returns:
	//   - error: error if the uniform update fails
	Sync() error
}

var _ Camera = &camera{}

// NewCamera creates an orbit camera and registers its uniform with the
// registry. The uniform carries view_position, view, view_proj, inv_proj, and
// inv_view and is synced once before returning.
//
// Parameters:
//   - reg: the registry the camera uniform is registered with
//   - label: the uniform's display label
//   - options: variadic list of CameraBuilderOption functions to configure the camera
//
// Returns:
//   - Camera: the camera
//   - error: error if the uniform cannot be registered or synced
func NewCamera(reg registry.Registry, label string, options ...CameraBuilderOption) (Camera, error) {
	c := &camera{
		registry: reg,
		distance: 5,
		fovY:     math32.Pi / 4,
		near:     0.1,
		far:      100,
		aspect:   1,
	}
	for _, opt := range options {
		opt(c)
	}

	handle, err := reg.RegisterUniform(label, c.uniformData())
	if err != nil {
		return nil, fmt.Errorf("camera %q: %w", label, err)
	}
	c.handle = handle
	return c, nil
}

func (c *camera) Uniform() registry.UniformHandle {
	return c.handle
}

func (c *camera) Eye() [3]float32 {
	cosPitch := math32.Cos(c.pitch)
	return [3]float32{
		c.target[0] + c.distance*cosPitch*math32.Sin(c.yaw),
		c.target[1] + c.distance*math32.Sin(c.pitch),
		c.target[2] + c.distance*cosPitch*math32.Cos(c.yaw),
	}
}

func (c *camera) Orbit(deltaYaw, deltaPitch float32) {
	c.yaw += deltaYaw
	c.pitch = clamp(c.pitch+deltaPitch, -pitchLimit, pitchLimit)
}

func (c *camera) Zoom(delta float32) {
	c.distance = max(c.distance-delta, minDistance)
}

func (c *camera) Pan(deltaX, deltaY float32) {
	sinYaw := math32.Sin(c.yaw)
	cosYaw := math32.Cos(c.yaw)

	// Right axis lies in the ground plane; the up component of the pan uses
	// world up so panning stays predictable at steep pitches.
	c.target[0] += deltaX * cosYaw
	c.target[2] -= deltaX * sinYaw
	c.target[1] += deltaY
}

func (c *camera) SetTarget(target [3]float32) {
	c.target = target
}

func (c *camera) Resize(size common.Size2d) {
	c.aspect = size.AspectRatio()
}

func (c *camera) Sync() error {
	if err := c.registry.UpdateUniform(c.handle, c.uniformData()); err != nil {
		return fmt.Errorf("camera sync: %w", err)
	}
	return nil
}

// uniformData derives the matrix fields from the current orbit state. The
// field order is fixed: a uniform's byte size may never change once
// registered.
func (c *camera) uniformData() uniform.Data {
	eye := c.Eye()

	var view, proj, viewProj, invView, invProj [16]float32
	common.LookAt(view[:],
		eye[0], eye[1], eye[2],
		c.target[0], c.target[1], c.target[2],
		0, 1, 0,
	)
	common.Perspective(proj[:], c.fovY, c.aspect, c.near, c.far)
	common.Mul4(viewProj[:], proj[:], view[:])
	common.Invert4(invView[:], view[:])
	common.Invert4(invProj[:], proj[:])

	return uniform.Data{Fields: []uniform.Field{
		uniform.NewVec3("view_position", eye),
		uniform.NewMat4("view", view),
		uniform.NewMat4("view_proj", viewProj),
		uniform.NewMat4("inv_proj", invProj),
		uniform.NewMat4("inv_view", invView),
	}}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
