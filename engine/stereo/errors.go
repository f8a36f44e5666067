package stereo

import "errors"

var (
	// ErrInvalidClipPlanes is returned when the near plane is negative or the far plane does not lie beyond it.
	ErrInvalidClipPlanes = errors.New("invalid clip planes")

	// ErrMalformedCalibration is returned when a calibration profile cannot produce a usable projection
	// (non-positive distances, odd horizontal resolution, non-positive field of view or aspect ratio).
	ErrMalformedCalibration = errors.New("malformed calibration")
)
