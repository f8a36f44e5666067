package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyI   = 73  // I key (ASCII), dumps HMD info in the stereo viewer
	KeyR   = 82  // R key (ASCII), resets body yaw in the stereo viewer
	KeyEsc = 256 // Escape key (GLFW)
)
