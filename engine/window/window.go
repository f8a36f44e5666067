package window

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling for an HMD display.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns the descriptor a renderer uses to create its WebGPU surface on this
	// window, built by the wgpuglfw bridge.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil before the platform window exists
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is open. Escape closes it.
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages polls window events on the calling (main) thread until the window closes.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// MonitorName returns the name of the monitor the window went fullscreen on, or "" when windowed.
	//
	// Returns:
	//   - string: the monitor name
	MonitorName() string
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// monitorName selects the fullscreen monitor by substring match. Empty means windowed.
	monitorName string

	// fullscreen requests fullscreen on the matched monitor, or on the primary monitor when
	// monitorName is empty or matches nothing.
	fullscreen bool

	// usedMonitor is the name of the monitor actually used for fullscreen.
	usedMonitor string

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onResize is called when the framebuffer is resized.
	onResize func(width, height int)

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order. The default size is the
// 1280x800 panel of a first-generation development kit.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured and spawned window
//   - error: error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:  "Oxy HMD",
		width:  1280,
		height: 800,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) MonitorName() string {
	return w.usedMonitor
}

// matchMonitor returns the index of the first monitor whose name contains want (case-insensitive),
// or -1. HMDs show up as an extra monitor named after the display device.
func matchMonitor(names []string, want string) int {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		return -1
	}
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), want) {
			return i
		}
	}
	return -1
}
