package engine

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-hmd/common"
	"github.com/Carmen-Shannon/oxy-hmd/engine/camera"
	"github.com/Carmen-Shannon/oxy-hmd/engine/hmd"
	"github.com/Carmen-Shannon/oxy-hmd/engine/profiler"
	"github.com/Carmen-Shannon/oxy-hmd/engine/stereo"
	"github.com/Carmen-Shannon/oxy-hmd/engine/window"
)

// EyeView is everything a renderer needs to draw one eye.
type EyeView struct {
	Eye            stereo.Eye
	Viewport       stereo.Rect
	Scissor        stereo.Rect
	Projection     [16]float32
	View           [16]float32
	ViewProjection [16]float32
	Frustum        common.Frustum

	// Mono is set when the session is disabled and this view covers the whole framebuffer.
	Mono bool
}

// engine implements the Engine interface.
// The session and camera are only touched from the render goroutine; the window thread hands
// resizes over through resizeChannel.
type engine struct {
	tickRateChannel chan time.Duration
	resizeChannel   chan [2]uint32

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window  window.Window
	session hmd.Session
	camera  camera.Camera

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)
	eyeCallback    func(eye stereo.Eye, view EyeView)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine drives the HMD frame loop: it refreshes head orientation once per frame and hands each
// eye's viewport, scissor and matrices to the eye callback.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	Window() window.Window

	// Session returns the HMD session the engine renders for.
	Session() hmd.Session

	// Camera returns the stereo camera.
	Camera() camera.Camera

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// It runs on its own goroutine and must not touch the session.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetEyeCallback registers the function called for each eye every render frame, left eye first.
	// When the session is disabled it is called once with a full-framebuffer mono view.
	//
	// Parameters:
	//   - callback: function receiving the eye and its view
	SetEyeCallback(callback func(eye stereo.Eye, view EyeView))

	// SetRenderCallback registers the function called after both eyes each render frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Resize queues a framebuffer size change. It is applied at the start of the next frame.
	//
	// Parameters:
	//   - width, height: new framebuffer size in pixels
	Resize(width, height int)

	// RenderFrame runs one frame on the calling goroutine.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	RenderFrame(deltaTime float32)

	// Run starts the engine loops and the window message loop (blocks until the window closes).
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine for session. A stereo camera is created for the session unless
// one is supplied with WithCamera.
//
// Parameters:
//   - session: the HMD session, ready or disabled
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(session hmd.Session, options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		resizeChannel:   make(chan [2]uint32, 1),
		quitChannel:     make(chan struct{}),
		session:         session,
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.camera == nil {
		e.camera = camera.NewCamera(session)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.Resize)
		e.Resize(e.window.Width(), e.window.Height())
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Session() hmd.Session {
	return e.session
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Run() {
	e.running.Store(true)
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate tick loop and listens for tick rate changes.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the render loop. Recovers from panics and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			e.RenderFrame(dt)

			if e.renderFrameLimit > 0 {
				if remaining := e.renderFrameLimit - time.Since(lastRender); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

func (e *engine) RenderFrame(deltaTime float32) {
	select {
	case size := <-e.resizeChannel:
		e.session.SetFramebufferSize(size[0], size[1])
	default:
	}

	e.profiler.TimeOrientation(e.camera.Update)

	if e.eyeCallback != nil {
		if e.camera.Mono() {
			e.eyeCallback(stereo.EyeLeft, e.monoView())
		} else {
			for _, eye := range stereo.Eyes {
				e.eyeCallback(eye, e.eyeView(eye))
			}
		}
	}

	if e.renderCallback != nil {
		e.renderCallback(deltaTime)
	}

	if e.profilingEnabled {
		e.profiler.Tick()
	}
}

func (e *engine) eyeView(eye stereo.Eye) EyeView {
	return EyeView{
		Eye:            eye,
		Viewport:       e.session.Viewport(eye),
		Scissor:        e.session.Scissor(eye),
		Projection:     e.camera.ProjectionMatrix(eye),
		View:           e.camera.ViewMatrix(),
		ViewProjection: e.camera.ViewProjectionMatrix(eye),
		Frustum:        e.camera.Frustum(eye),
	}
}

func (e *engine) monoView() EyeView {
	w, h := e.session.FramebufferSize()
	full := stereo.Rect{Width: w, Height: h}
	v := e.eyeView(stereo.EyeLeft)
	v.Viewport, v.Scissor = full, full
	v.Mono = true
	return v
}

func (e *engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	size := [2]uint32{uint32(width), uint32(height)}
	select {
	case e.resizeChannel <- size:
	default:
		select {
		case <-e.resizeChannel:
		default:
		}
		e.resizeChannel <- size
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := period(fps)

	if e.running.Load() {
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetEyeCallback(callback func(eye stereo.Eye, view EyeView)) {
	e.eyeCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = period(fps)
}

// period converts a positive rate in Hz to the time between events, never less than a nanosecond.
func period(fps float64) time.Duration {
	return max(time.Duration(float64(time.Second)/fps), time.Nanosecond)
}
