package stereo

import (
	"fmt"
	"math"
)

// Geometry holds the scalars derived from a CalibrationProfile that drive the per-eye frustums.
type Geometry struct {
	// ViewportWidth is half the horizontal panel resolution.
	ViewportWidth uint32
	// ViewportHeight is the vertical panel resolution.
	ViewportHeight uint32

	// AspectRatio is ViewportWidth / ViewportHeight.
	AspectRatio float32

	// IPDHalf is half the interpupillary distance in meters.
	IPDHalf float32

	// ILD is the lens separation as a fraction of the screen width.
	ILD float32
	// ILDHalf is ILD / 2.
	ILDHalf float32

	// Fov is the vertical field of view in radians.
	Fov float32
}

// Derive computes the stereo geometry of a calibration profile.
// The field of view is taken from the VERTICAL screen size and the eye-to-screen distance.
//
// Parameters:
//   - profile: a calibration profile with positive distances and an even horizontal resolution
//
// Returns:
//   - Geometry: the derived geometry
//   - error: wraps ErrMalformedCalibration if the profile is invalid or yields a degenerate fov/aspect
func Derive(profile CalibrationProfile) (Geometry, error) {
	if err := profile.Validate(); err != nil {
		return Geometry{}, err
	}

	g := Geometry{
		ViewportWidth:  profile.ResolutionH / 2,
		ViewportHeight: profile.ResolutionV,
		AspectRatio:    (float32(profile.ResolutionH) / 2.0) / float32(profile.ResolutionV),
		IPDHalf:        profile.InterpupillaryDistance / 2.0,
		ILD:            profile.LensSeparationDistance / profile.ScreenSizeH,
		Fov:            2.0 * float32(math.Atan(float64(profile.ScreenSizeV/(2.0*profile.EyeToScreenDistance)))),
	}
	g.ILDHalf = g.ILD / 2.0

	if err := g.validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

// validate rejects geometry that cannot produce a perspective projection.
func (g Geometry) validate() error {
	if !(g.Fov > 0) || g.Fov >= math.Pi {
		return fmt.Errorf("%w: field of view %v outside (0, pi)", ErrMalformedCalibration, g.Fov)
	}
	if !(g.AspectRatio > 0) {
		return fmt.Errorf("%w: aspect ratio %v", ErrMalformedCalibration, g.AspectRatio)
	}
	return nil
}
