package camera

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the initial head position in world space.
//
// Parameters:
//   - x, y, z: world-space position
//
// Returns:
//   - CameraBuilderOption: a function that sets the head position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = [3]float32{x, y, z}
	}
}

// WithBodyYaw sets the initial yaw offset applied on top of head tracking.
//
// Parameters:
//   - yaw: yaw in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the body yaw
func WithBodyYaw(yaw float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bodyYaw = yaw
	}
}
