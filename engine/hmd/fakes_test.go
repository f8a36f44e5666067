package hmd

import (
	"errors"

	"gonum.org/v1/gonum/num/quat"

	"github.com/Carmen-Shannon/oxy-hmd/engine/stereo"
)

// fakeRuntime scripts every collaborator failure mode and records release order.
type fakeRuntime struct {
	initErr    error
	managerErr error
	closeErr   error

	hasHMD      bool
	hmdSensor   bool
	bareSensor  bool
	calibration *stereo.CalibrationProfile
	fusionErr   error
	orientation quat.Number

	inits     int
	shutdowns int
	events    []string
	fusion    *fakeFusion
}

func devKitCalibration() *stereo.CalibrationProfile {
	return &stereo.CalibrationProfile{
		ResolutionH:            1280,
		ResolutionV:            800,
		ScreenSizeH:            0.14976,
		ScreenSizeV:            0.0935,
		ScreenCenterV:          0.04675,
		EyeToScreenDistance:    0.041,
		LensSeparationDistance: 0.064,
		InterpupillaryDistance: 0.064,
		ProductName:            "Rift DK1",
	}
}

// readyRuntime returns a runtime on which every detection step succeeds.
func readyRuntime() *fakeRuntime {
	return &fakeRuntime{
		hasHMD:      true,
		hmdSensor:   true,
		calibration: devKitCalibration(),
		orientation: quat.Number{Real: 1},
	}
}

func (r *fakeRuntime) Init() error {
	if r.initErr != nil {
		return r.initErr
	}
	r.inits++
	return nil
}

func (r *fakeRuntime) Shutdown() {
	r.shutdowns++
	r.events = append(r.events, "shutdown")
}

func (r *fakeRuntime) NewDeviceManager() (DeviceManager, error) {
	if r.managerErr != nil {
		return nil, r.managerErr
	}
	return &fakeManager{rt: r}, nil
}

type fakeManager struct{ rt *fakeRuntime }

func (m *fakeManager) OpenHMD() (HMDDevice, error) {
	if !m.rt.hasHMD {
		return nil, errors.New("no hmd attached")
	}
	return &fakeHMD{rt: m.rt}, nil
}

func (m *fakeManager) OpenSensor() (SensorDevice, error) {
	if !m.rt.bareSensor {
		return nil, errors.New("no sensor attached")
	}
	return &fakeSensor{rt: m.rt}, nil
}

func (m *fakeManager) Close() error {
	m.rt.events = append(m.rt.events, "manager")
	return m.rt.closeErr
}

type fakeHMD struct{ rt *fakeRuntime }

func (d *fakeHMD) Calibration() (stereo.CalibrationProfile, error) {
	if d.rt.calibration == nil {
		return stereo.CalibrationProfile{}, errors.New("device info unavailable")
	}
	return *d.rt.calibration, nil
}

func (d *fakeHMD) Sensor() (SensorDevice, error) {
	if !d.rt.hmdSensor {
		return nil, errors.New("hmd sensor unavailable")
	}
	return &fakeSensor{rt: d.rt}, nil
}

func (d *fakeHMD) Close() error {
	d.rt.events = append(d.rt.events, "device")
	return nil
}

type fakeSensor struct{ rt *fakeRuntime }

func (s *fakeSensor) NewFusion() (Fusion, error) {
	if s.rt.fusionErr != nil {
		return nil, s.rt.fusionErr
	}
	s.rt.fusion = &fakeFusion{rt: s.rt}
	return s.rt.fusion, nil
}

func (s *fakeSensor) Close() error {
	s.rt.events = append(s.rt.events, "sensor")
	return nil
}

type fakeFusion struct {
	rt                *fakeRuntime
	motionTracking    bool
	gravityCorrection bool
	reads             int
}

func (f *fakeFusion) SetMotionTracking(enabled bool)    { f.motionTracking = enabled }
func (f *fakeFusion) SetGravityCorrection(enabled bool) { f.gravityCorrection = enabled }

func (f *fakeFusion) Orientation() quat.Number {
	f.reads++
	return f.rt.orientation
}

func (f *fakeFusion) Acceleration() [3]float32 {
	return [3]float32{0, 9.81, 0}
}

// valueRuntime is a Runtime passed by value whose slice field makes it unusable as a map key.
type valueRuntime struct {
	tags []string
}

func (valueRuntime) Init() error { return nil }

func (valueRuntime) Shutdown() {}

func (valueRuntime) NewDeviceManager() (DeviceManager, error) {
	return nil, errors.New("unreachable")
}
