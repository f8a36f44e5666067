package hmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-hmd/common"
	"github.com/Carmen-Shannon/oxy-hmd/engine/stereo"
)

// Placeholder framebuffer used until calibration is read: two 640x800 eye halves.
const (
	DefaultFramebufferWidth  uint32 = 1280
	DefaultFramebufferHeight uint32 = 800
)

// Session owns one head-mounted display: its device, sensor and fusion handles, its calibration, and
// the cached per-eye projections. Device detection happens once, in NewSession; a session that fails to
// find a usable device stays disabled for its whole lifetime and answers geometry queries with identity matrices and
// empty rectangles so a renderer can fall back to mono rendering.
//
// A Session is not safe for concurrent use. Callers that read orientation from another goroutine must
// add their own synchronization.
type Session interface {
	// Enabled reports whether stereo rendering is available (the session is StateReady).
	//
	// Returns:
	//   - bool: true if the session is ready
	Enabled() bool

	// State returns the current lifecycle state.
	//
	// Returns:
	//   - State: the session state
	State() State

	// DisabledReason returns why device detection failed, or nil if the session is ready.
	// The error matches one of the ErrDeviceManagerUnavailable, ErrNoHMDOrSensorFound,
	// ErrCalibrationUnreadable, ErrFusionInitFailed or ErrSessionClosed sentinels.
	//
	// Returns:
	//   - error: the recorded reason or nil
	DisabledReason() error

	// Orientation returns the current head orientation.
	//
	// Returns:
	//   - common.Quat: the orientation, or identity when not ready
	//   - error: ErrNoSensor when not ready
	Orientation() (common.Quat, error)

	// OrientationMatrix returns the current head orientation as a rotation matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the rotation matrix, or identity when not ready
	//   - error: ErrNoSensor when not ready
	OrientationMatrix() ([16]float32, error)

	// Acceleration returns the latest acceleration sample reported by the fusion filter.
	//
	// Returns:
	//   - [3]float32: acceleration in m/s²
	//   - error: ErrNoSensor when not ready
	Acceleration() ([3]float32, error)

	// Projection returns the cached projection matrix for an eye (column-major). The pair is built
	// on the first call after the session becomes ready and again after the clip planes change.
	//
	// Parameters:
	//   - eye: which eye
	//
	// Returns:
	//   - [16]float32: the projection matrix, or identity when not ready
	Projection(eye stereo.Eye) [16]float32

	// Viewport returns the framebuffer rectangle an eye renders into.
	//
	// Parameters:
	//   - eye: which eye
	//
	// Returns:
	//   - stereo.Rect: the viewport, or an empty rectangle when not ready
	Viewport(eye stereo.Eye) stereo.Rect

	// Scissor returns the scissor rectangle for an eye. It always equals the eye's viewport.
	//
	// Parameters:
	//   - eye: which eye
	//
	// Returns:
	//   - stereo.Rect: the scissor rectangle, or an empty rectangle when not ready
	Scissor(eye stereo.Eye) stereo.Rect

	// FramebufferSize returns the combined framebuffer size shared by both eyes.
	// Once ready this is the panel resolution unless explicitly overridden; before that it is the
	// 1280x800 placeholder.
	//
	// Returns:
	//   - width, height: the size in pixels
	FramebufferSize() (width, height uint32)

	// SetFramebufferSize overrides the combined framebuffer size, for example after a window resize.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	SetFramebufferSize(width, height uint32)

	// Calibration returns the calibration profile in use.
	//
	// Returns:
	//   - stereo.CalibrationProfile: the device calibration, or the placeholder profile when not ready
	//   - bool: true if the profile came from the device
	Calibration() (stereo.CalibrationProfile, bool)

	// Geometry returns the stereo geometry derived from the calibration.
	//
	// Returns:
	//   - stereo.Geometry: the derived geometry (zero when not ready)
	//   - bool: true if the session is ready
	Geometry() (stereo.Geometry, bool)

	// NearPlane returns the effective near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	NearPlane() float32

	// FarPlane returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	FarPlane() float32

	// SetClipPlanes reconfigures the clip planes and invalidates the cached projections.
	//
	// Parameters:
	//   - near: near plane distance (0 selects the 0.2 m default)
	//   - far: far plane distance (must exceed near)
	//
	// Returns:
	//   - error: wraps stereo.ErrInvalidClipPlanes; the previous planes are kept on error
	SetClipPlanes(near, far float32) error

	// DumpInfo logs the calibration, derived geometry and the current head pose.
	DumpInfo()

	// Close releases the sensor, device and manager handles in that order, then the SDK runtime.
	// Calling Close again is a no-op.
	//
	// Returns:
	//   - error: joined errors from releasing the handles
	Close() error
}

type sessionImpl struct {
	runtime Runtime
	logger  *log.Logger

	state          State
	disabledReason error
	runtimeHeld    bool
	closed         bool

	manager DeviceManager
	device  HMDDevice
	sensor  SensorDevice
	fusion  Fusion

	near float32
	far  float32

	motionTracking    bool
	gravityCorrection bool

	fbWidth    uint32
	fbHeight   uint32
	fbOverride bool

	calibration stereo.CalibrationProfile
	geometry    stereo.Geometry

	projections       [2][16]float32
	projectionsCached bool
}

var _ Session = &sessionImpl{}

// NewSession searches the runtime for a head-mounted display and returns a session that is either ready
// or disabled. Missing or failing hardware never produces an error here; it is recorded and available
// from DisabledReason. Invalid clip planes and malformed device calibration are configuration mistakes
// and are returned.
//
// Parameters:
//   - runtime: the device SDK runtime
//   - options: functional options; WithFarPlane is required
//
// Returns:
//   - Session: the detected session
//   - error: wraps stereo.ErrInvalidClipPlanes or stereo.ErrMalformedCalibration
func NewSession(runtime Runtime, options ...SessionBuilderOption) (Session, error) {
	s := &sessionImpl{
		runtime:           runtime,
		logger:            log.Default(),
		state:             StateUninitialized,
		motionTracking:    true,
		gravityCorrection: true,
		fbWidth:           DefaultFramebufferWidth,
		fbHeight:          DefaultFramebufferHeight,
		calibration:       stereo.DefaultCalibrationProfile(),
	}
	for _, option := range options {
		option(s)
	}

	near, err := stereo.ResolveClipPlanes(s.near, s.far)
	if err != nil {
		return nil, err
	}
	s.near = near

	if err := s.detect(); err != nil {
		return nil, errors.Join(err, s.Close())
	}
	return s, nil
}

// detect walks the device path once: runtime, manager, HMD or bare sensor, fusion, calibration.
// Hardware failures disable the session and return nil; only malformed calibration is returned.
func (s *sessionImpl) detect() error {
	s.state = StateProbingDevice
	s.logger.Println("[HMD] Initialising head-mounted display...")

	if s.runtime == nil {
		return s.disable(fmt.Errorf("%w: no runtime", ErrDeviceManagerUnavailable))
	}
	if err := acquireRuntime(s.runtime); err != nil {
		return s.disable(fmt.Errorf("%w: runtime init: %v", ErrDeviceManagerUnavailable, err))
	}
	s.runtimeHeld = true

	manager, err := s.runtime.NewDeviceManager()
	if err != nil || manager == nil {
		return s.disable(reason(ErrDeviceManagerUnavailable, err, "no manager"))
	}
	s.manager = manager

	var (
		calibration stereo.CalibrationProfile
		calErr      = fmt.Errorf("%w: no hmd device", ErrCalibrationUnreadable)
		sensor      SensorDevice
		sensorErr   error
	)
	device, err := manager.OpenHMD()
	if err == nil && device != nil {
		s.device = device
		s.logger.Println("[HMD] Device found")
		calibration, calErr = device.Calibration()
		if calErr != nil {
			calErr = fmt.Errorf("%w: %v", ErrCalibrationUnreadable, calErr)
		}
		sensor, sensorErr = device.Sensor()
	} else {
		s.logger.Printf("[HMD] Device not found: %v", err)
		sensor, sensorErr = manager.OpenSensor()
	}
	if sensorErr != nil || sensor == nil {
		return s.disable(reason(ErrNoHMDOrSensorFound, sensorErr, "no sensor"))
	}
	s.sensor = sensor
	s.logger.Println("[HMD] Sensor found")

	fusion, err := sensor.NewFusion()
	if err != nil || fusion == nil {
		return s.disable(reason(ErrFusionInitFailed, err, "no fusion"))
	}
	s.fusion = fusion

	if calErr != nil {
		return s.disable(calErr)
	}

	geometry, err := stereo.Derive(calibration)
	if err != nil {
		return err
	}

	fusion.SetMotionTracking(s.motionTracking)
	fusion.SetGravityCorrection(s.gravityCorrection)

	s.calibration = calibration
	s.geometry = geometry
	if !s.fbOverride {
		s.fbWidth, s.fbHeight = calibration.ResolutionH, calibration.ResolutionV
	}
	s.state = StateReady
	s.logger.Printf("[HMD] Ready: %s %dx%d, fov %.4f rad, aspect %.4f, ild %.4f",
		calibration.ProductName, calibration.ResolutionH, calibration.ResolutionV,
		geometry.Fov, geometry.AspectRatio, geometry.ILD)
	return nil
}

// reason wraps a disable sentinel with the collaborator's error, or with fallback when the
// collaborator returned a nil handle without an error.
func reason(sentinel, err error, fallback string) error {
	if err != nil {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return fmt.Errorf("%w: %s", sentinel, fallback)
}

// disable records why the session cannot render in stereo. Handles acquired so far stay open until Close.
func (s *sessionImpl) disable(why error) error {
	s.state = StateDisabled
	s.disabledReason = why
	s.logger.Printf("[HMD] Disabled: %v", why)
	return nil
}

func (s *sessionImpl) Enabled() bool {
	return s.state == StateReady
}

func (s *sessionImpl) State() State {
	return s.state
}

func (s *sessionImpl) DisabledReason() error {
	return s.disabledReason
}

func (s *sessionImpl) Orientation() (common.Quat, error) {
	if !s.Enabled() {
		return common.IdentityQuat(), ErrNoSensor
	}
	return ToEngineQuaternion(s.fusion.Orientation()), nil
}

func (s *sessionImpl) OrientationMatrix() ([16]float32, error) {
	q, err := s.Orientation()
	if err != nil {
		return common.IdentityMatrix(), err
	}
	return RotationMatrix(q), nil
}

func (s *sessionImpl) Acceleration() ([3]float32, error) {
	if !s.Enabled() {
		return [3]float32{}, ErrNoSensor
	}
	return s.fusion.Acceleration(), nil
}

func (s *sessionImpl) Projection(eye stereo.Eye) [16]float32 {
	if !s.Enabled() {
		return common.IdentityMatrix()
	}
	if !s.projectionsCached {
		left, right, err := stereo.BuildProjections(s.geometry, s.near, s.far)
		if err != nil {
			// Geometry and planes are validated before they are stored.
			s.logger.Printf("[HMD] Failed to build projections: %v", err)
			return common.IdentityMatrix()
		}
		s.projections = [2][16]float32{left, right}
		s.projectionsCached = true
	}
	if eye == stereo.EyeRight {
		return s.projections[1]
	}
	return s.projections[0]
}

func (s *sessionImpl) Viewport(eye stereo.Eye) stereo.Rect {
	if !s.Enabled() {
		return stereo.Rect{}
	}
	return stereo.Viewport(eye, s.fbWidth, s.fbHeight)
}

func (s *sessionImpl) Scissor(eye stereo.Eye) stereo.Rect {
	return s.Viewport(eye)
}

func (s *sessionImpl) FramebufferSize() (width, height uint32) {
	return s.fbWidth, s.fbHeight
}

func (s *sessionImpl) SetFramebufferSize(width, height uint32) {
	s.fbWidth, s.fbHeight = width, height
	s.fbOverride = true
}

func (s *sessionImpl) Calibration() (stereo.CalibrationProfile, bool) {
	return s.calibration, s.Enabled()
}

func (s *sessionImpl) Geometry() (stereo.Geometry, bool) {
	if !s.Enabled() {
		return stereo.Geometry{}, false
	}
	return s.geometry, true
}

func (s *sessionImpl) NearPlane() float32 {
	return s.near
}

func (s *sessionImpl) FarPlane() float32 {
	return s.far
}

func (s *sessionImpl) SetClipPlanes(near, far float32) error {
	near, err := stereo.ResolveClipPlanes(near, far)
	if err != nil {
		return err
	}
	s.near, s.far = near, far
	s.projectionsCached = false
	return nil
}

func (s *sessionImpl) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.sensor != nil {
		errs = append(errs, s.sensor.Close())
		s.sensor = nil
	}
	if s.device != nil {
		errs = append(errs, s.device.Close())
		s.device = nil
	}
	if s.manager != nil {
		errs = append(errs, s.manager.Close())
		s.manager = nil
	}
	s.fusion = nil
	if s.runtimeHeld {
		releaseRuntime(s.runtime)
		s.runtimeHeld = false
	}

	s.state = StateDisabled
	s.disabledReason = ErrSessionClosed
	s.projectionsCached = false
	return errors.Join(errs...)
}
