package hmd

import "errors"

// Reasons a session falls back to StateDisabled. They are recorded on the session rather than returned
// from NewSession; match them against Session.DisabledReason with errors.Is.
var (
	ErrDeviceManagerUnavailable = errors.New("device manager unavailable")
	ErrNoHMDOrSensorFound       = errors.New("no hmd or sensor found")
	ErrCalibrationUnreadable    = errors.New("calibration unreadable")
	ErrFusionInitFailed         = errors.New("sensor fusion init failed")
)

// ErrNoSensor is returned by orientation queries on a session that is not ready.
var ErrNoSensor = errors.New("no sensor")

// ErrSessionClosed is the disabled reason of a session after Close.
var ErrSessionClosed = errors.New("session closed")
