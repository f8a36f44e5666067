package tracker

import (
	"log"

	"github.com/Carmen-Shannon/oxy-hmd/engine/stereo"
)

// SerialRuntimeOption is a functional option for configuring a SerialRuntime.
type SerialRuntimeOption func(*SerialRuntime)

// WithPortOptions sets the serial connection parameters.
//
// Parameters:
//   - opts: baud rate, data bits, stop bits and parity
//
// Returns:
//   - SerialRuntimeOption: option function to apply
func WithPortOptions(opts PortOptions) SerialRuntimeOption {
	return func(r *SerialRuntime) {
		r.opts = opts
	}
}

// WithCalibration supplies the calibration of the display the tracker is mounted on.
// Without it the tracker is reported as a bare sensor.
//
// Parameters:
//   - profile: the display calibration
//
// Returns:
//   - SerialRuntimeOption: option function to apply
func WithCalibration(profile stereo.CalibrationProfile) SerialRuntimeOption {
	return func(r *SerialRuntime) {
		r.calibration = &profile
	}
}

// WithPortOpener replaces the function used to open the serial port.
//
// Parameters:
//   - open: the opener
//
// Returns:
//   - SerialRuntimeOption: option function to apply
func WithPortOpener(open PortOpener) SerialRuntimeOption {
	return func(r *SerialRuntime) {
		r.open = open
	}
}

// WithSerialLogger sets the logger for tracker diagnostics.
//
// Parameters:
//   - logger: the logger (nil is ignored)
//
// Returns:
//   - SerialRuntimeOption: option function to apply
func WithSerialLogger(logger *log.Logger) SerialRuntimeOption {
	return func(r *SerialRuntime) {
		if logger != nil {
			r.logger = logger
		}
	}
}
