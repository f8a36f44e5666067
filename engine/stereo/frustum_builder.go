package stereo

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-hmd/common"
)

// DefaultNearPlane is the near clip distance in meters used when the caller passes zero.
const DefaultNearPlane float32 = 0.2

// Extents are the off-axis clip extents of one eye measured on the near plane.
type Extents struct {
	Left, Right, Bottom, Top float32
}

// EyeExtents computes the asymmetric near-plane extents for one eye.
// The left eye's frustum is stretched outward on its left side by the lens offset and the right
// eye's on its right side; swapping the signs produces cross-eyed stereo.
//
// Parameters:
//   - g: the stereo geometry
//   - near: near clipping plane distance
//   - eye: which eye to compute
//
// Returns:
//   - Extents: the near-plane extents for the eye
func EyeExtents(g Geometry, near float32, eye Eye) Extents {
	top := float32(math.Tan(float64(g.Fov*0.5))) * near
	bottom := -top

	e := Extents{Bottom: bottom, Top: top}
	switch eye {
	case EyeRight:
		e.Left = g.AspectRatio * bottom * (1.0 - g.ILDHalf)
		e.Right = g.AspectRatio * top * (1.0 + g.ILDHalf)
	default:
		e.Left = g.AspectRatio * bottom * (1.0 + g.ILDHalf)
		e.Right = g.AspectRatio * top * (1.0 - g.ILDHalf)
	}
	return e
}

// ResolveClipPlanes applies the near plane default and checks the clip plane ordering.
//
// Parameters:
//   - near: near clipping plane distance (0 selects DefaultNearPlane)
//   - far: far clipping plane distance
//
// Returns:
//   - float32: the effective near plane
//   - error: wraps ErrInvalidClipPlanes when near < 0 or far <= near
func ResolveClipPlanes(near, far float32) (float32, error) {
	near = common.Coalesce(near, DefaultNearPlane)
	if !(near > 0) {
		return 0, fmt.Errorf("%w: near plane %v must be positive", ErrInvalidClipPlanes, near)
	}
	if !(far > near) {
		return 0, fmt.Errorf("%w: far plane %v must exceed near plane %v", ErrInvalidClipPlanes, far, near)
	}
	return near, nil
}

// BuildProjections computes the left and right eye projection matrices.
// Each matrix is an off-axis frustum followed by a horizontal eye-space translation of
// +IPDHalf (left eye) or -IPDHalf (right eye). Matrices are column-major.
// The result is deterministic and depends on no graphics state; callers cache it.
//
// Parameters:
//   - g: the stereo geometry
//   - near: near clipping plane distance (0 selects DefaultNearPlane)
//   - far: far clipping plane distance (must exceed near)
//
// Returns:
//   - left: the left eye projection matrix
//   - right: the right eye projection matrix
//   - err: wraps ErrInvalidClipPlanes or ErrMalformedCalibration
func BuildProjections(g Geometry, near, far float32) (left, right [16]float32, err error) {
	near, err = ResolveClipPlanes(near, far)
	if err != nil {
		return left, right, err
	}
	if err = g.validate(); err != nil {
		return left, right, err
	}

	left = eyeProjection(g, near, far, EyeLeft)
	right = eyeProjection(g, near, far, EyeRight)
	return left, right, nil
}

// eyeProjection builds frustum * translation for one eye. Near and far are assumed valid.
func eyeProjection(g Geometry, near, far float32, eye Eye) [16]float32 {
	ext := EyeExtents(g, near, eye)

	var frustum, shift, out [16]float32
	common.FrustumMatrix(frustum[:], ext.Left, ext.Right, ext.Bottom, ext.Top, near, far)

	offset := g.IPDHalf
	if eye == EyeRight {
		offset = -offset
	}
	common.Translation(shift[:], offset, 0, 0)

	common.Mul4(out[:], frustum[:], shift[:])
	return out
}
