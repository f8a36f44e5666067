package tracker

import (
	"errors"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/num/quat"

	"github.com/Carmen-Shannon/oxy-hmd/engine/hmd"
	"github.com/Carmen-Shannon/oxy-hmd/engine/stereo"
)

const gravity = 9.81

// ErrNoSimulatedHMD is returned by OpenHMD when the simulated runtime was built WithoutHMD.
var ErrNoSimulatedHMD = errors.New("simulated hmd detached")

// DevKit1Profile returns the calibration reported by a first-generation development kit.
//
// Returns:
//   - stereo.CalibrationProfile: the development kit calibration
func DevKit1Profile() stereo.CalibrationProfile {
	return stereo.CalibrationProfile{
		ResolutionH:            1280,
		ResolutionV:            800,
		ScreenSizeH:            0.14976,
		ScreenSizeV:            0.0936,
		ScreenCenterV:          0.0468,
		EyeToScreenDistance:    0.041,
		LensSeparationDistance: 0.0635,
		InterpupillaryDistance: 0.064,
		DistortionK:            [4]float32{1.0, 0.22, 0.24, 0},
		DisplayDeviceName:      "Rift DK1",
		ProductName:            "Oculus Rift DK1",
		Manufacturer:           "Oculus VR",
		Version:                1,
	}
}

// SimulatedRuntime is an hmd.Runtime backed by a virtual headset whose head sways on a fixed
// pattern: roll 20°·sin(t), pitch 15°·cos(0.7t), yaw 30°/s.
type SimulatedRuntime struct {
	mu          sync.Mutex
	calibration stereo.CalibrationProfile
	noHMD       bool
	clock       func() time.Time
	start       time.Time
	running     bool
}

var _ hmd.Runtime = &SimulatedRuntime{}

// NewSimulatedRuntime creates a simulated runtime with a development kit calibration.
//
// Parameters:
//   - options: functional options to configure the runtime
//
// Returns:
//   - *SimulatedRuntime: the runtime, not yet initialized
func NewSimulatedRuntime(options ...SimulatedOption) *SimulatedRuntime {
	r := &SimulatedRuntime{
		calibration: DevKit1Profile(),
		clock:       time.Now,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Init starts the simulation clock.
func (r *SimulatedRuntime) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.start = r.clock()
	r.running = true
	return nil
}

func (r *SimulatedRuntime) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
}

// Running reports whether the runtime is between Init and Shutdown.
//
// Returns:
//   - bool: true if initialized
func (r *SimulatedRuntime) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *SimulatedRuntime) NewDeviceManager() (hmd.DeviceManager, error) {
	return &simManager{rt: r}, nil
}

// elapsed returns the simulated time in seconds.
func (r *SimulatedRuntime) elapsed() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clock().Sub(r.start).Seconds()
}

type simManager struct {
	rt *SimulatedRuntime
}

func (m *simManager) OpenHMD() (hmd.HMDDevice, error) {
	if m.rt.noHMD {
		return nil, ErrNoSimulatedHMD
	}
	return &simHMD{rt: m.rt}, nil
}

func (m *simManager) OpenSensor() (hmd.SensorDevice, error) {
	return &simSensor{rt: m.rt}, nil
}

func (m *simManager) Close() error { return nil }

type simHMD struct {
	rt *SimulatedRuntime
}

func (d *simHMD) Calibration() (stereo.CalibrationProfile, error) {
	return d.rt.calibration, nil
}

func (d *simHMD) Sensor() (hmd.SensorDevice, error) {
	return &simSensor{rt: d.rt}, nil
}

func (d *simHMD) Close() error { return nil }

type simSensor struct {
	rt *SimulatedRuntime
}

func (s *simSensor) NewFusion() (hmd.Fusion, error) {
	return &simFusion{rt: s.rt, tracking: true, frozen: quat.Number{Real: 1}}, nil
}

func (s *simSensor) Close() error { return nil }

type simFusion struct {
	rt       *SimulatedRuntime
	tracking bool
	gravity  bool
	frozen   quat.Number
}

func (f *simFusion) SetMotionTracking(enabled bool) {
	if !enabled {
		f.frozen = f.Orientation()
	}
	f.tracking = enabled
}

func (f *simFusion) SetGravityCorrection(enabled bool) {
	f.gravity = enabled
}

func (f *simFusion) Orientation() quat.Number {
	if !f.tracking {
		return f.frozen
	}
	return SwayAt(f.rt.elapsed())
}

// Acceleration returns gravity as seen in the head frame.
func (f *simFusion) Acceleration() [3]float32 {
	q := f.Orientation()
	g := quat.Mul(quat.Mul(quat.Conj(q), quat.Number{Jmag: gravity}), q)
	return [3]float32{float32(g.Imag), float32(g.Jmag), float32(g.Kmag)}
}

// SwayAt returns the simulated head orientation t seconds after start.
//
// Parameters:
//   - t: elapsed seconds
//
// Returns:
//   - quat.Number: unit orientation, yaw then pitch then roll
func SwayAt(t float64) quat.Number {
	const deg = math.Pi / 180

	yaw := math.Mod(t*30, 360) * deg
	pitch := 15 * math.Cos(t*0.7) * deg
	roll := 20 * math.Sin(t) * deg

	q := quat.Mul(axisAngle(0, 1, 0, yaw), axisAngle(1, 0, 0, pitch))
	q = quat.Mul(q, axisAngle(0, 0, 1, roll))
	return quat.Scale(1/quat.Abs(q), q)
}

// axisAngle builds the unit quaternion for a rotation of angle radians about a unit axis.
func axisAngle(x, y, z, angle float64) quat.Number {
	s, c := math.Sincos(angle / 2)
	return quat.Number{Real: c, Imag: x * s, Jmag: y * s, Kmag: z * s}
}
