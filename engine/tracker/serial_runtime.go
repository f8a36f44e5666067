package tracker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"go.bug.st/serial"
	"gonum.org/v1/gonum/num/quat"

	"github.com/Carmen-Shannon/oxy-hmd/engine/hmd"
	"github.com/Carmen-Shannon/oxy-hmd/engine/stereo"
)

// ErrNoCalibration is returned by OpenHMD when a serial tracker was configured without a display profile.
var ErrNoCalibration = errors.New("serial tracker has no display calibration")

// PortOpener opens the tracker's serial port.
type PortOpener func(path string, mode *serial.Mode) (io.ReadWriteCloser, error)

func openSerialPort(path string, mode *serial.Mode) (io.ReadWriteCloser, error) {
	return serial.Open(path, mode)
}

// SerialRuntime is an hmd.Runtime for a head tracker that streams orientation over a serial port,
// typically an IMU board strapped to a display. The tracker reports no display calibration, so it
// only yields a ready session when a profile is supplied with WithCalibration; otherwise it shows up
// as a bare sensor.
type SerialRuntime struct {
	path        string
	opts        PortOptions
	mode        *serial.Mode
	calibration *stereo.CalibrationProfile
	open        PortOpener
	logger      *log.Logger
}

var _ hmd.Runtime = &SerialRuntime{}

// NewSerialRuntime creates a runtime for the tracker on the given port path.
//
// Parameters:
//   - path: serial port path (e.g. /dev/ttyACM0 or COM3)
//   - options: functional options to configure the runtime
//
// Returns:
//   - *SerialRuntime: the runtime, not yet initialized
func NewSerialRuntime(path string, options ...SerialRuntimeOption) *SerialRuntime {
	r := &SerialRuntime{
		path:   path,
		open:   openSerialPort,
		logger: log.Default(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Init validates the port options.
func (r *SerialRuntime) Init() error {
	mode, err := r.opts.SerialMode()
	if err != nil {
		return fmt.Errorf("serial options: %w", err)
	}
	r.mode = mode
	r.logger.Printf("[Tracker] Using %s at %d baud", r.path, mode.BaudRate)
	return nil
}

// Shutdown forgets the port mode; open ports are closed by their sensors.
func (r *SerialRuntime) Shutdown() {
	r.mode = nil
}

func (r *SerialRuntime) NewDeviceManager() (hmd.DeviceManager, error) {
	if r.mode == nil {
		return nil, fmt.Errorf("serial runtime not initialized")
	}
	return &serialManager{rt: r}, nil
}

func (r *SerialRuntime) openSensor() (hmd.SensorDevice, error) {
	port, err := r.open(r.path, r.mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.path, err)
	}
	return &serialSensor{port: port, logger: r.logger}, nil
}

type serialManager struct {
	rt *SerialRuntime
}

func (m *serialManager) OpenHMD() (hmd.HMDDevice, error) {
	if m.rt.calibration == nil {
		return nil, ErrNoCalibration
	}
	return &serialHMD{rt: m.rt}, nil
}

func (m *serialManager) OpenSensor() (hmd.SensorDevice, error) {
	return m.rt.openSensor()
}

func (m *serialManager) Close() error {
	return nil
}

// serialHMD pairs the configured calibration with the serial tracker.
type serialHMD struct {
	rt *SerialRuntime
}

func (d *serialHMD) Calibration() (stereo.CalibrationProfile, error) {
	return *d.rt.calibration, nil
}

func (d *serialHMD) Sensor() (hmd.SensorDevice, error) {
	return d.rt.openSensor()
}

func (d *serialHMD) Close() error {
	return nil
}

// readLoopGrace bounds how long Close waits for the read loop to notice the closed port.
const readLoopGrace = time.Second

type serialSensor struct {
	port   io.ReadWriteCloser
	logger *log.Logger
	fusion *streamFusion
}

func (s *serialSensor) NewFusion() (hmd.Fusion, error) {
	f := newStreamFusion(s.port, s.logger)
	go f.consume(s.port)
	s.fusion = f
	return f, nil
}

// Close closes the port, which ends the fusion's read loop, and waits for the loop to exit.
func (s *serialSensor) Close() error {
	err := s.port.Close()
	if s.fusion != nil {
		select {
		case <-s.fusion.done:
		case <-time.After(readLoopGrace):
			s.logger.Printf("[Tracker] Read loop still running after close")
		}
	}
	return err
}

// streamFusion keeps the latest sample from the tracker. The tracker runs its own filter, so fusion
// here is reduced to holding the newest estimate. The read loop runs on its own goroutine and the
// render thread reads snapshots under the mutex.
type streamFusion struct {
	mu          sync.Mutex
	orientation quat.Number
	accel       [3]float32
	tracking    bool

	w      io.Writer
	logger *log.Logger
	done   chan struct{}
}

func newStreamFusion(w io.Writer, logger *log.Logger) *streamFusion {
	return &streamFusion{
		orientation: quat.Number{Real: 1},
		tracking:    true,
		w:           w,
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// consume reads samples until the port is closed or fails.
func (f *streamFusion) consume(r io.Reader) {
	defer close(f.done)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s, err := parseSample(scanner.Text())
		if err != nil {
			continue
		}
		f.mu.Lock()
		switch s.kind {
		case sampleOrientation:
			if f.tracking {
				f.orientation = s.orientation
			}
		case sampleAccel:
			f.accel = s.accel
		}
		f.mu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		f.logger.Printf("[Tracker] Read loop stopped: %v", err)
	}
}

func (f *streamFusion) SetMotionTracking(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracking = enabled
}

// SetGravityCorrection forwards the setting to the tracker firmware.
func (f *streamFusion) SetGravityCorrection(enabled bool) {
	cmd := "G0\n"
	if enabled {
		cmd = "G1\n"
	}
	if _, err := io.WriteString(f.w, cmd); err != nil {
		f.logger.Printf("[Tracker] Failed to set gravity correction: %v", err)
	}
}

func (f *streamFusion) Orientation() quat.Number {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orientation
}

func (f *streamFusion) Acceleration() [3]float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accel
}

// ListPorts returns the serial ports present on the host.
//
// Returns:
//   - []string: port paths
//   - error: error if the ports cannot be enumerated
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
