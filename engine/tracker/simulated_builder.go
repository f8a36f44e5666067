package tracker

import (
	"time"

	"github.com/Carmen-Shannon/oxy-hmd/engine/stereo"
)

// SimulatedOption is a functional option for configuring a SimulatedRuntime.
type SimulatedOption func(*SimulatedRuntime)

// WithSimulatedCalibration replaces the development kit calibration.
//
// Parameters:
//   - profile: the calibration the simulated HMD reports
//
// Returns:
//   - SimulatedOption: option function to apply
func WithSimulatedCalibration(profile stereo.CalibrationProfile) SimulatedOption {
	return func(r *SimulatedRuntime) {
		r.calibration = profile
	}
}

// WithoutHMD detaches the simulated display, leaving only a bare sensor.
//
// Returns:
//   - SimulatedOption: option function to apply
func WithoutHMD() SimulatedOption {
	return func(r *SimulatedRuntime) {
		r.noHMD = true
	}
}

// WithClock replaces the time source driving the simulated head motion.
//
// Parameters:
//   - clock: returns the current time
//
// Returns:
//   - SimulatedOption: option function to apply
func WithClock(clock func() time.Time) SimulatedOption {
	return func(r *SimulatedRuntime) {
		r.clock = clock
	}
}
