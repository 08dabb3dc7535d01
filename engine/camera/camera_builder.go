package camera

// CameraBuilderOption is a functional option used to configure a camera during construction.
type CameraBuilderOption func(*camera)

// WithTarget sets the point the camera orbits.
//
// Parameters:
//   - target: the target in world space
//
// Returns:
//   - CameraBuilderOption: the option to apply
func WithTarget(target [3]float32) CameraBuilderOption {
	return func(c *camera) {
		c.target = target
	}
}

// WithOrbit sets the starting yaw, pitch, and distance.
//
// Parameters:
//   - yaw: rotation around the vertical axis in radians
//   - pitch: elevation angle in radians, clamped short of the poles
//   - distance: distance from the target, clamped to a small minimum
//
// Returns:
//   - CameraBuilderOption: the option to apply
func WithOrbit(yaw, pitch, distance float32) CameraBuilderOption {
	return func(c *camera) {
		c.yaw = yaw
		c.pitch = clamp(pitch, -pitchLimit, pitchLimit)
		c.distance = max(distance, minDistance)
	}
}

// WithProjection sets the perspective projection parameters.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - near: near clipping plane distance
//   - far: far clipping plane distance
//
// Returns:
//   - CameraBuilderOption: the option to apply
func WithProjection(fovY, near, far float32) CameraBuilderOption {
	return func(c *camera) {
		c.fovY = fovY
		c.near = near
		c.far = far
	}
}

// WithAspectRatio sets the starting aspect ratio. Resize overrides it.
//
// Parameters:
//   - aspect: width divided by height
//
// Returns:
//   - CameraBuilderOption: the option to apply
func WithAspectRatio(aspect float32) CameraBuilderOption {
	return func(c *camera) {
		c.aspect = aspect
	}
}
