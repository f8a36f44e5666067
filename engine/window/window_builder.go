package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial framebuffer size, normally the HMD panel resolution.
//
// Parameters:
//   - width, height: size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
		w.height = height
	}
}

// WithMonitor requests fullscreen on the monitor whose name contains the given display name,
// typically the calibration's DisplayDeviceName. Falls back to the primary monitor when no name matches.
//
// Parameters:
//   - name: display name to match
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMonitor(name string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.monitorName = name
		w.fullscreen = true
	}
}

// WithFullscreen toggles fullscreen.
//
// Parameters:
//   - fullscreen: true for fullscreen
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithFullscreen(fullscreen bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.fullscreen = fullscreen
	}
}
