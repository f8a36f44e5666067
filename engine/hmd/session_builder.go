package hmd

import (
	"log"
)

// SessionBuilderOption is a functional option for configuring a Session.
type SessionBuilderOption func(*sessionImpl)

// WithNearPlane sets the near clipping plane distance.
// Zero selects the 0.2 m default.
//
// Parameters:
//   - near: near plane distance in meters
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithNearPlane(near float32) SessionBuilderOption {
	return func(s *sessionImpl) {
		s.near = near
	}
}

// WithFarPlane sets the far clipping plane distance. Required; it must exceed the near plane.
//
// Parameters:
//   - far: far plane distance in meters
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithFarPlane(far float32) SessionBuilderOption {
	return func(s *sessionImpl) {
		s.far = far
	}
}

// WithFramebufferSize overrides the combined framebuffer size. Without it the session uses the panel
// resolution once calibration is read.
//
// Parameters:
//   - width, height: framebuffer size in pixels
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithFramebufferSize(width, height uint32) SessionBuilderOption {
	return func(s *sessionImpl) {
		s.fbWidth = width
		s.fbHeight = height
		s.fbOverride = true
	}
}

// WithLogger sets the logger used for device detection and diagnostic output. Defaults to log.Default().
//
// Parameters:
//   - logger: the logger (nil is ignored)
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithLogger(logger *log.Logger) SessionBuilderOption {
	return func(s *sessionImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGravityCorrection toggles tilt drift correction in the fusion filter. Enabled by default.
//
// Parameters:
//   - enabled: true to correct drift against gravity
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithGravityCorrection(enabled bool) SessionBuilderOption {
	return func(s *sessionImpl) {
		s.gravityCorrection = enabled
	}
}

// WithMotionTracking toggles orientation updates in the fusion filter. Enabled by default.
//
// Parameters:
//   - enabled: true to track motion
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithMotionTracking(enabled bool) SessionBuilderOption {
	return func(s *sessionImpl) {
		s.motionTracking = enabled
	}
}
