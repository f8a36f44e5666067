package stereo

// Rect is a pixel rectangle in framebuffer coordinates, used for both viewport and scissor state.
type Rect struct {
	X, Y          uint32
	Width, Height uint32
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// LeftViewport returns the left half of a framebuffer.
// An odd width rounds down, leaving the last column unused.
//
// Parameters:
//   - totalWidth, totalHeight: the combined framebuffer size in pixels
//
// Returns:
//   - Rect: the left eye rectangle
func LeftViewport(totalWidth, totalHeight uint32) Rect {
	return Rect{X: 0, Y: 0, Width: totalWidth / 2, Height: totalHeight}
}

// RightViewport returns the right half of a framebuffer.
//
// Parameters:
//   - totalWidth, totalHeight: the combined framebuffer size in pixels
//
// Returns:
//   - Rect: the right eye rectangle
func RightViewport(totalWidth, totalHeight uint32) Rect {
	half := totalWidth / 2
	return Rect{X: half, Y: 0, Width: half, Height: totalHeight}
}

// Viewport returns the half of the framebuffer belonging to an eye.
//
// Parameters:
//   - eye: which eye
//   - totalWidth, totalHeight: the combined framebuffer size in pixels
//
// Returns:
//   - Rect: the eye's rectangle
func Viewport(eye Eye, totalWidth, totalHeight uint32) Rect {
	if eye == EyeRight {
		return RightViewport(totalWidth, totalHeight)
	}
	return LeftViewport(totalWidth, totalHeight)
}
