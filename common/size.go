package common

// Size2d is a logical 2D extent in pixels.
// GPU textures reject zero-sized dimensions, so both axes are always >= 1.
type Size2d struct {
	Width  uint32
	Height uint32
}

// NewSize2d creates a Size2d, clamping each dimension to at least 1 pixel.
// Degenerate requests (a collapsed inspector panel reporting 0x0, a minimized
// window) are clamped rather than rejected.
//
// Parameters:
//   - width: requested width in pixels
//   - height: requested height in pixels
//
// Returns:
//   - Size2d: the clamped extent
func NewSize2d(width, height uint32) Size2d {
	return Size2d{
		Width:  max(width, 1),
		Height: max(height, 1),
	}
}

// AspectRatio returns width/height as a float32.
//
// Returns:
//   - float32: the aspect ratio (always finite, since height >= 1 for clamped sizes)
func (s Size2d) AspectRatio() float32 {
	if s.Height == 0 {
		return 1
	}
	return float32(s.Width) / float32(s.Height)
}
