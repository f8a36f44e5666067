// Package stereo derives per-eye viewing geometry for a side-by-side stereoscopic head-mounted display.
// Everything here is a pure computation over a CalibrationProfile; no device or graphics context is needed.
package stereo

import (
	"fmt"
)

// DefaultInterpupillaryDistance is a typical adult IPD in meters, used until real calibration is read.
const DefaultInterpupillaryDistance float32 = 0.064

// CalibrationProfile is an immutable snapshot of the hardware parameters reported by an HMD.
// All distances are in meters. The panel is shared by both eyes, split horizontally.
type CalibrationProfile struct {
	// ResolutionH is the total horizontal panel resolution in pixels (both eyes combined).
	ResolutionH uint32
	// ResolutionV is the vertical panel resolution in pixels.
	ResolutionV uint32

	// ScreenSizeH and ScreenSizeV are the physical panel dimensions.
	ScreenSizeH, ScreenSizeV float32
	// ScreenCenterV is the vertical offset of the screen center.
	ScreenCenterV float32

	EyeToScreenDistance    float32
	LensSeparationDistance float32
	InterpupillaryDistance float32

	// DistortionK holds the lens distortion coefficients. They are not consumed here and are
	// carried through for a distortion shader.
	DistortionK [4]float32

	DisplayDeviceName string
	ProductName       string
	Manufacturer      string
	Version           uint32
}

// DefaultCalibrationProfile returns the placeholder profile used before any device has been detected.
// It describes a 1280x800 panel with the default IPD; its physical dimensions are those of a
// first-generation development kit and must never be mistaken for real calibration.
//
// Returns:
//   - CalibrationProfile: the placeholder profile
func DefaultCalibrationProfile() CalibrationProfile {
	return CalibrationProfile{
		ResolutionH:            1280,
		ResolutionV:            800,
		ScreenSizeH:            0.14976,
		ScreenSizeV:            0.0935,
		ScreenCenterV:          0.0935 / 2,
		EyeToScreenDistance:    0.041,
		LensSeparationDistance: 0.0635,
		InterpupillaryDistance: DefaultInterpupillaryDistance,
		DistortionK:            [4]float32{1.0, 0.22, 0.24, 0},
	}
}

// Validate checks that every distance is positive, both resolutions are positive,
// and the horizontal resolution is even so it splits evenly between the eyes.
//
// Returns:
//   - error: wraps ErrMalformedCalibration naming the first offending field, or nil
func (p CalibrationProfile) Validate() error {
	if p.ResolutionH == 0 || p.ResolutionV == 0 {
		return fmt.Errorf("%w: resolution %dx%d", ErrMalformedCalibration, p.ResolutionH, p.ResolutionV)
	}
	if p.ResolutionH%2 != 0 {
		return fmt.Errorf("%w: horizontal resolution %d is odd", ErrMalformedCalibration, p.ResolutionH)
	}

	distances := []struct {
		name  string
		value float32
	}{
		{"screen size h", p.ScreenSizeH},
		{"screen size v", p.ScreenSizeV},
		{"eye to screen distance", p.EyeToScreenDistance},
		{"lens separation distance", p.LensSeparationDistance},
		{"interpupillary distance", p.InterpupillaryDistance},
	}
	for _, d := range distances {
		if !(d.value > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrMalformedCalibration, d.name, d.value)
		}
	}
	return nil
}
