package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-hmd/common"
	"github.com/Carmen-Shannon/oxy-hmd/engine/hmd"
	"github.com/Carmen-Shannon/oxy-hmd/engine/stereo"
)

type cameraImpl struct {
	mu *sync.Mutex

	session hmd.Session

	position [3]float32
	bodyYaw  float32

	orientation common.Quat
	mono        bool

	viewMatrix           [16]float32
	projectionMatrix     [2][16]float32
	viewProjectionMatrix [2][16]float32
	monoProjection       [16]float32
	monoPlanes           [2]float32 // near, far the mono projection was built with
}

// Camera is a head-tracked stereo camera. Each frame Update reads the head orientation from an
// hmd.Session and recomputes the view matrix shared by both eyes and the per-eye view-projection
// matrices. The eye offset lives in the session's projection matrices, so the view is common.
//
// When the session is not enabled the camera runs in mono: both eyes receive the same symmetric
// projection derived from the placeholder calibration and the head orientation stays at identity.
type Camera interface {
	// Session returns the session the camera reads from.
	//
	// Returns:
	//   - hmd.Session: the session
	Session() hmd.Session

	// Mono reports whether the camera fell back to mono rendering because the session is disabled.
	//
	// Returns:
	//   - bool: true in mono mode
	Mono() bool

	// Position returns the head position in world space.
	//
	// Returns:
	//   - x, y, z: world-space position
	Position() (x, y, z float32)

	// SetPosition sets the head position in world space.
	//
	// Parameters:
	//   - x, y, z: world-space position
	SetPosition(x, y, z float32)

	// BodyYaw returns the yaw offset applied on top of the tracked head orientation.
	//
	// Returns:
	//   - float32: yaw in radians
	BodyYaw() float32

	// SetBodyYaw sets the yaw offset applied on top of the tracked head orientation, used to turn
	// the player without turning their head.
	//
	// Parameters:
	//   - yaw: yaw in radians
	SetBodyYaw(yaw float32)

	// Orientation returns the head orientation captured by the last Update.
	//
	// Returns:
	//   - common.Quat: the orientation
	Orientation() common.Quat

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns an eye's projection matrix as 16 floats (column-major).
	//
	// Parameters:
	//   - eye: which eye
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix(eye stereo.Eye) [16]float32

	// ViewProjectionMatrix returns an eye's combined view-projection matrix as 16 floats (column-major).
	//
	// Parameters:
	//   - eye: which eye
	//
	// Returns:
	//   - [16]float32: the view-projection matrix
	ViewProjectionMatrix(eye stereo.Eye) [16]float32

	// Frustum returns an eye's world-space culling frustum.
	//
	// Parameters:
	//   - eye: which eye
	//
	// Returns:
	//   - common.Frustum: the frustum planes
	Frustum(eye stereo.Eye) common.Frustum

	// Uniform returns the GPU uniform for the current frame.
	//
	// Returns:
	//   - GPUStereoCameraUniform: both eyes' view-projection matrices and the head position
	Uniform() GPUStereoCameraUniform

	// Update reads the head orientation from the session and recomputes all matrices.
	// Should be called once per frame before rendering either eye.
	Update()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a stereo camera bound to a session.
//
// Parameters:
//   - session: the HMD session providing orientation and projections
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(session hmd.Session, options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		session:     session,
		orientation: common.IdentityQuat(),
		viewMatrix:  common.IdentityMatrix(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

// monoProjection builds the symmetric fallback projection from the placeholder calibration.
func monoProjection(near, far float32) [16]float32 {
	g, err := stereo.Derive(stereo.DefaultCalibrationProfile())
	if err != nil {
		return common.IdentityMatrix()
	}
	top := float32(math.Tan(float64(g.Fov*0.5))) * near
	right := top * g.AspectRatio * 2 // one eye's aspect doubled: mono spans the whole framebuffer

	var m [16]float32
	common.FrustumMatrix(m[:], -right, right, -top, top, near, far)
	return m
}

func (c *cameraImpl) Session() hmd.Session {
	return c.session
}

func (c *cameraImpl) Mono() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mono
}

func (c *cameraImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position[0], c.position[1], c.position[2]
}

func (c *cameraImpl) SetPosition(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = [3]float32{x, y, z}
	c.computeMatrices()
}

func (c *cameraImpl) BodyYaw() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bodyYaw
}

func (c *cameraImpl) SetBodyYaw(yaw float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodyYaw = yaw
	c.computeMatrices()
}

func (c *cameraImpl) Orientation() common.Quat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orientation
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix(eye stereo.Eye) [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix[eyeIndex(eye)]
}

func (c *cameraImpl) ViewProjectionMatrix(eye stereo.Eye) [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix[eyeIndex(eye)]
}

func (c *cameraImpl) Frustum(eye stereo.Eye) common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustumFromMatrix(c.viewProjectionMatrix[eyeIndex(eye)][:])
}

func (c *cameraImpl) Uniform() GPUStereoCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUStereoCameraUniform{
		ViewProj:       c.viewProjectionMatrix,
		CameraPosition: c.position,
	}
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

// updateMatrices pulls orientation and projections from the session and recomputes everything.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.mono = !c.session.Enabled()
	if c.mono {
		planes := [2]float32{c.session.NearPlane(), c.session.FarPlane()}
		if planes != c.monoPlanes {
			c.monoProjection = monoProjection(planes[0], planes[1])
			c.monoPlanes = planes
		}
		c.orientation = common.IdentityQuat()
		c.projectionMatrix = [2][16]float32{c.monoProjection, c.monoProjection}
	} else {
		q, err := c.session.Orientation()
		if err != nil {
			q = common.IdentityQuat()
		}
		c.orientation = q
		for _, eye := range stereo.Eyes {
			c.projectionMatrix[eye] = c.session.Projection(eye)
		}
	}
	c.computeMatrices()
}

// computeMatrices rebuilds the view and view-projection matrices from the cached state.
// The head's world transform is T(position) * Ry(bodyYaw) * R(orientation); the view is its inverse.
// Caller must hold the mutex.
func (c *cameraImpl) computeMatrices() {
	var head, body, rot, trans, world [16]float32
	common.QuatToMat4(head[:], c.orientation)

	s, co := math.Sincos(float64(c.bodyYaw) / 2)
	common.QuatToMat4(body[:], common.Quat{W: float32(co), Y: float32(s)})

	common.Mul4(rot[:], body[:], head[:])
	common.Translation(trans[:], c.position[0], c.position[1], c.position[2])
	common.Mul4(world[:], trans[:], rot[:])

	if !common.Invert4(c.viewMatrix[:], world[:]) {
		c.viewMatrix = common.IdentityMatrix()
	}
	for _, eye := range stereo.Eyes {
		common.Mul4(c.viewProjectionMatrix[eye][:], c.projectionMatrix[eye][:], c.viewMatrix[:])
	}
}

func eyeIndex(eye stereo.Eye) int {
	if eye == stereo.EyeRight {
		return 1
	}
	return 0
}
