package tracker

import (
	"bytes"
	"errors"
	"io"
	"log"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/num/quat"

	"github.com/Carmen-Shannon/oxy-hmd/engine/hmd"
	"github.com/Carmen-Shannon/oxy-hmd/engine/stereo"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// scriptedPort replays a fixed tracker stream and records commands written to it.
// drained is closed once the script is exhausted; every line has been applied by then.
type scriptedPort struct {
	r       io.Reader
	written bytes.Buffer
	closed  bool
	drained chan struct{}
	once    sync.Once
}

func newScriptedPort(script string) *scriptedPort {
	return &scriptedPort{r: strings.NewReader(script), drained: make(chan struct{})}
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if err == io.EOF {
		p.once.Do(func() { close(p.drained) })
	}
	return n, err
}

func (p *scriptedPort) Write(b []byte) (int, error) { return p.written.Write(b) }

func (p *scriptedPort) Close() error {
	p.closed = true
	return nil
}

func TestPortOptions_NormalizeDefaults(t *testing.T) {
	got, err := PortOptions{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, PortOptions{BaudRate: 115200, DataBits: 8, StopBits: 1, Parity: "N"}, got)
}

func TestPortOptions_NormalizeRejects(t *testing.T) {
	for _, opts := range []PortOptions{
		{DataBits: 9},
		{StopBits: 3},
		{Parity: "mark"},
	} {
		_, err := opts.Normalize()
		assert.Error(t, err, "%+v", opts)
	}
}

func TestPortOptions_SerialMode(t *testing.T) {
	mode, err := PortOptions{BaudRate: 9600, StopBits: 2, Parity: "even"}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, 9600, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.TwoStopBits, mode.StopBits)
	assert.Equal(t, serial.EvenParity, mode.Parity)

	mode, err = PortOptions{}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
}

func TestParseSample(t *testing.T) {
	s, err := parseSample("Q 2 0 0 0")
	require.NoError(t, err)
	assert.Equal(t, sampleOrientation, s.kind)
	assert.Equal(t, quat.Number{Real: 1}, s.orientation)

	s, err = parseSample("a 0.1 9.8 -0.2")
	require.NoError(t, err)
	assert.Equal(t, sampleAccel, s.kind)
	assert.Equal(t, [3]float32{0.1, 9.8, -0.2}, s.accel)

	for _, bad := range []string{
		"", "Q 1 0 0", "Q 0 0 0 0", "A 1 2", "Q 1 x 0 0", "T 1 2 3",
		"Q NaN 0 0 0", "Q 1 0 Inf 0", "A -Inf 0 0", "A 0 nan 0", "A 1e300 0 0",
	} {
		_, err := parseSample(bad)
		assert.Error(t, err, "%q", bad)
	}
}

func TestSerialRuntime_ReadySessionWithCalibration(t *testing.T) {
	port := newScriptedPort("Q 0.7071068 0 0.7071068 0\nA 0 9.81 0\ngarbage\n")
	rt := NewSerialRuntime("/dev/ttyTEST",
		WithCalibration(DevKit1Profile()),
		WithSerialLogger(quietLogger()),
		WithPortOpener(func(path string, mode *serial.Mode) (io.ReadWriteCloser, error) {
			assert.Equal(t, "/dev/ttyTEST", path)
			assert.Equal(t, 115200, mode.BaudRate)
			return port, nil
		}),
	)

	s, err := hmd.NewSession(rt, hmd.WithFarPlane(100), hmd.WithLogger(quietLogger()))
	require.NoError(t, err)
	require.True(t, s.Enabled())

	<-port.drained

	q, err := s.Orientation()
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.5), q.W, 1e-6)
	assert.InDelta(t, math.Sqrt(0.5), q.Y, 1e-6)

	a, err := s.Acceleration()
	require.NoError(t, err)
	assert.Equal(t, [3]float32{0, 9.81, 0}, a)
	assert.Equal(t, "G1\n", port.written.String())

	require.NoError(t, s.Close())
	assert.True(t, port.closed)
}

func TestSerialRuntime_BareSensorIsDisabled(t *testing.T) {
	port := newScriptedPort("")
	rt := NewSerialRuntime("/dev/ttyTEST",
		WithSerialLogger(quietLogger()),
		WithPortOpener(func(string, *serial.Mode) (io.ReadWriteCloser, error) { return port, nil }),
	)

	s, err := hmd.NewSession(rt, hmd.WithFarPlane(100), hmd.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.False(t, s.Enabled())
	assert.ErrorIs(t, s.DisabledReason(), hmd.ErrCalibrationUnreadable)
	require.NoError(t, s.Close())
	assert.True(t, port.closed)
}

func TestSerialRuntime_PortOpenFailure(t *testing.T) {
	rt := NewSerialRuntime("/dev/missing",
		WithCalibration(DevKit1Profile()),
		WithSerialLogger(quietLogger()),
		WithPortOpener(func(string, *serial.Mode) (io.ReadWriteCloser, error) {
			return nil, errors.New("no such file")
		}),
	)
	s, err := hmd.NewSession(rt, hmd.WithFarPlane(100), hmd.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.ErrorIs(t, s.DisabledReason(), hmd.ErrNoHMDOrSensorFound)
	require.NoError(t, s.Close())
}

func TestSerialRuntime_InvalidOptions(t *testing.T) {
	rt := NewSerialRuntime("/dev/ttyTEST", WithPortOptions(PortOptions{DataBits: 12}), WithSerialLogger(quietLogger()))
	s, err := hmd.NewSession(rt, hmd.WithFarPlane(100), hmd.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.ErrorIs(t, s.DisabledReason(), hmd.ErrDeviceManagerUnavailable)
	require.NoError(t, s.Close())
}

func TestStreamFusion_MotionTrackingFreezesOrientation(t *testing.T) {
	f := newStreamFusion(io.Discard, quietLogger())
	f.SetMotionTracking(false)
	f.consume(strings.NewReader("Q 0 1 0 0\nA 1 2 3\n"))

	assert.Equal(t, quat.Number{Real: 1}, f.Orientation())
	assert.Equal(t, [3]float32{1, 2, 3}, f.Acceleration())
}

func TestSimulatedRuntime_ReadySession(t *testing.T) {
	now := time.Unix(0, 0)
	rt := NewSimulatedRuntime(WithClock(func() time.Time { return now }))

	s, err := hmd.NewSession(rt, hmd.WithFarPlane(100), hmd.WithLogger(quietLogger()))
	require.NoError(t, err)
	require.True(t, s.Enabled())
	assert.True(t, rt.Running())

	cal, _ := s.Calibration()
	assert.Equal(t, "Oculus Rift DK1", cal.ProductName)

	// At t=0 only the pitch term is non-zero.
	q, err := s.Orientation()
	require.NoError(t, err)
	yaw, pitch, roll := hmd.EulerYXZ(q)
	assert.InDelta(t, 0, yaw, 1e-5)
	assert.InDelta(t, 15*math.Pi/180, pitch, 1e-5)
	assert.InDelta(t, 0, roll, 1e-5)

	now = now.Add(2 * time.Second)
	q2, err := s.Orientation()
	require.NoError(t, err)
	assert.NotEqual(t, q, q2)
	assert.InDelta(t, 1, q2.Len(), 1e-5)

	a, err := s.Acceleration()
	require.NoError(t, err)
	n := math.Sqrt(float64(a[0]*a[0] + a[1]*a[1] + a[2]*a[2]))
	assert.InDelta(t, gravity, n, 1e-4)

	require.NoError(t, s.Close())
	assert.False(t, rt.Running())
}

func TestSimulatedRuntime_WithoutHMD(t *testing.T) {
	rt := NewSimulatedRuntime(WithoutHMD())
	s, err := hmd.NewSession(rt, hmd.WithFarPlane(100), hmd.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.ErrorIs(t, s.DisabledReason(), hmd.ErrCalibrationUnreadable)
	require.NoError(t, s.Close())
}

func TestSimulatedRuntime_MalformedCalibration(t *testing.T) {
	p := DevKit1Profile()
	p.ResolutionH = 1279
	rt := NewSimulatedRuntime(WithSimulatedCalibration(p))
	_, err := hmd.NewSession(rt, hmd.WithFarPlane(100), hmd.WithLogger(quietLogger()))
	assert.ErrorIs(t, err, stereo.ErrMalformedCalibration)
	assert.False(t, rt.Running())
}

func TestSwayAt_UnitLength(t *testing.T) {
	for _, ts := range []float64{0, 0.5, 1, 7.25, 100} {
		q := SwayAt(ts)
		assert.True(t, scalar.EqualWithinAbs(1, quat.Abs(q), 1e-12), "t=%v", ts)
	}
}
