package hmd

import (
	"gonum.org/v1/gonum/num/quat"

	"github.com/Carmen-Shannon/oxy-hmd/engine/stereo"
)

// Runtime is the process-wide device SDK. A Session acquires it on construction and releases it on
// Close; the first acquisition calls Init and the last release calls Shutdown.
// Implementations should be comparable (typically a pointer type); other values disable the session
// with ErrDeviceManagerUnavailable.
type Runtime interface {
	// Init starts the SDK. It is called once per process, before the first device manager is created.
	//
	// Returns:
	//   - error: error if the SDK cannot start
	Init() error

	// Shutdown stops the SDK. It is called once, after the last session holding the runtime closes.
	Shutdown()

	// NewDeviceManager creates the manager used to enumerate devices.
	//
	// Returns:
	//   - DeviceManager: the device manager
	//   - error: error if the manager cannot be created
	NewDeviceManager() (DeviceManager, error)
}

// DeviceManager enumerates the HMD and sensor devices attached to the host.
type DeviceManager interface {
	// OpenHMD opens the first head-mounted display.
	//
	// Returns:
	//   - HMDDevice: the opened display
	//   - error: error if no display is attached or it cannot be opened
	OpenHMD() (HMDDevice, error)

	// OpenSensor opens the first standalone motion sensor. It is used when no HMD is attached.
	//
	// Returns:
	//   - SensorDevice: the opened sensor
	//   - error: error if no sensor is attached or it cannot be opened
	OpenSensor() (SensorDevice, error)

	// Close releases the manager.
	Close() error
}

// HMDDevice is an opened head-mounted display.
type HMDDevice interface {
	// Calibration reads the display's calibration record.
	//
	// Returns:
	//   - stereo.CalibrationProfile: the reported calibration
	//   - error: error if the device cannot report calibration
	Calibration() (stereo.CalibrationProfile, error)

	// Sensor opens the motion sensor built into the display.
	//
	// Returns:
	//   - SensorDevice: the display's sensor
	//   - error: error if the sensor cannot be opened
	Sensor() (SensorDevice, error)

	// Close releases the display handle.
	Close() error
}

// SensorDevice is an opened motion sensor.
type SensorDevice interface {
	// NewFusion attaches a sensor fusion filter to the sensor.
	//
	// Returns:
	//   - Fusion: the fusion filter
	//   - error: error if fusion cannot be initialized
	NewFusion() (Fusion, error)

	// Close releases the sensor handle.
	Close() error
}

// Fusion combines raw sensor samples into a head orientation estimate.
type Fusion interface {
	// SetMotionTracking enables or disables orientation updates from incoming samples.
	SetMotionTracking(enabled bool)

	// SetGravityCorrection enables or disables tilt drift correction against gravity.
	SetGravityCorrection(enabled bool)

	// Orientation returns the latest unit orientation quaternion in w + xi + yj + zk form.
	Orientation() quat.Number

	// Acceleration returns the latest acceleration sample in m/s².
	Acceleration() [3]float32
}
