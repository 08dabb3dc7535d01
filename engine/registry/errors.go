package registry

import "errors"

var (
	// ErrNotFound is returned when a handle does not resolve: it is stale, was
	// issued by a different registry, or its entry was removed.
	ErrNotFound = errors.New("handle not found")

	// ErrUniformSizeMismatch is returned when an update serializes to a byte
	// length different from the uniform buffer's fixed length. The write is
	// rejected rather than truncated or padded, since a partial write would
	// desynchronize the GPU-visible layout from the shader's expectation.
	ErrUniformSizeMismatch = errors.New("uniform data size mismatch")

	// ErrDuplicateBinding is returned when two bind group entries share a
	// binding slot. Rejected before any GPU object is created.
	ErrDuplicateBinding = errors.New("duplicate binding slot")
)
