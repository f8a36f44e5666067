package stereo

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/Carmen-Shannon/oxy-hmd/common"
)

const tol = 1e-4

// devKitProfile is the first development kit as reported by the device.
func devKitProfile() CalibrationProfile {
	return CalibrationProfile{
		ResolutionH:            1280,
		ResolutionV:            800,
		ScreenSizeH:            0.14976,
		ScreenSizeV:            0.0935,
		ScreenCenterV:          0.04675,
		EyeToScreenDistance:    0.041,
		LensSeparationDistance: 0.064,
		InterpupillaryDistance: 0.064,
	}
}

func near(a, b float32) bool {
	return scalar.EqualWithinAbs(float64(a), float64(b), tol)
}

func TestDerive_DevKit(t *testing.T) {
	g, err := Derive(devKitProfile())
	require.NoError(t, err)

	assert.Equal(t, uint32(640), g.ViewportWidth)
	assert.Equal(t, uint32(800), g.ViewportHeight)
	assert.Equal(t, float32(640)/float32(800), g.AspectRatio)
	assert.InDelta(t, 0.032, g.IPDHalf, tol)
	assert.InDelta(t, 0.064/0.14976, g.ILD, tol)
	assert.InDelta(t, 0.4274, g.ILD, tol)
	assert.InDelta(t, g.ILD/2, g.ILDHalf, 1e-7)
	assert.InDelta(t, 2*math.Atan(0.0935/0.082), g.Fov, tol)
}

func TestDerive_FovUsesVerticalScreenSize(t *testing.T) {
	p := devKitProfile()
	base, err := Derive(p)
	require.NoError(t, err)

	p.ScreenSizeH *= 2
	p.LensSeparationDistance *= 2
	wider, err := Derive(p)
	require.NoError(t, err)
	assert.Equal(t, base.Fov, wider.Fov, "horizontal screen size must not affect the vertical fov")

	p = devKitProfile()
	p.ScreenSizeV = 0.05
	shorter, err := Derive(p)
	require.NoError(t, err)
	assert.Less(t, shorter.Fov, base.Fov)
	assert.InDelta(t, 2*math.Atan(0.05/0.082), shorter.Fov, tol)
}

func TestDerive_FovRangeAndAspect(t *testing.T) {
	cases := []struct {
		h, v         uint32
		sizeV, eyeTo float32
	}{
		{1280, 800, 0.0935, 0.041},
		{1920, 1080, 0.0628, 0.05},
		{2, 1, 10, 0.0001},
		{4000, 2000, 0.0001, 10},
	}
	for _, c := range cases {
		p := devKitProfile()
		p.ResolutionH, p.ResolutionV = c.h, c.v
		p.ScreenSizeV, p.EyeToScreenDistance = c.sizeV, c.eyeTo

		g, err := Derive(p)
		require.NoError(t, err)
		assert.Greater(t, g.Fov, float32(0))
		assert.Less(t, g.Fov, float32(math.Pi))
		assert.Equal(t, (float32(c.h)/2)/float32(c.v), g.AspectRatio)
	}
}

func TestDerive_RejectsMalformedProfiles(t *testing.T) {
	mutations := map[string]func(*CalibrationProfile){
		"odd horizontal resolution": func(p *CalibrationProfile) { p.ResolutionH = 1279 },
		"zero vertical resolution":  func(p *CalibrationProfile) { p.ResolutionV = 0 },
		"zero eye distance":         func(p *CalibrationProfile) { p.EyeToScreenDistance = 0 },
		"negative screen height":    func(p *CalibrationProfile) { p.ScreenSizeV = -0.1 },
		"zero screen width":         func(p *CalibrationProfile) { p.ScreenSizeH = 0 },
		"NaN lens separation":       func(p *CalibrationProfile) { p.LensSeparationDistance = float32(math.NaN()) },
		"zero ipd":                  func(p *CalibrationProfile) { p.InterpupillaryDistance = 0 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			p := devKitProfile()
			mutate(&p)
			_, err := Derive(p)
			assert.ErrorIs(t, err, ErrMalformedCalibration)
		})
	}
}

func TestDefaultCalibrationProfile_IsValid(t *testing.T) {
	p := DefaultCalibrationProfile()
	require.NoError(t, p.Validate())
	assert.Equal(t, DefaultInterpupillaryDistance, p.InterpupillaryDistance)
}

func TestBuildProjections_Deterministic(t *testing.T) {
	g, err := Derive(devKitProfile())
	require.NoError(t, err)

	l1, r1, err := BuildProjections(g, 0.1, 500)
	require.NoError(t, err)
	l2, r2, err := BuildProjections(g, 0.1, 500)
	require.NoError(t, err)

	if diff := cmp.Diff(l1, l2); diff != "" {
		t.Errorf("left projection not deterministic (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(r1, r2); diff != "" {
		t.Errorf("right projection not deterministic (-first +second):\n%s", diff)
	}
	assert.NotEqual(t, l1, r1)
}

func TestBuildProjections_ClipPlanes(t *testing.T) {
	g, err := Derive(devKitProfile())
	require.NoError(t, err)

	t.Run("far equal to near", func(t *testing.T) {
		_, _, err := BuildProjections(g, 1, 1)
		assert.ErrorIs(t, err, ErrInvalidClipPlanes)
	})
	t.Run("far below near", func(t *testing.T) {
		_, _, err := BuildProjections(g, 1, 0.5)
		assert.ErrorIs(t, err, ErrInvalidClipPlanes)
	})
	t.Run("far below default near", func(t *testing.T) {
		_, _, err := BuildProjections(g, 0, 0.1)
		assert.ErrorIs(t, err, ErrInvalidClipPlanes)
	})
	t.Run("negative near", func(t *testing.T) {
		_, _, err := BuildProjections(g, -0.1, 10)
		assert.ErrorIs(t, err, ErrInvalidClipPlanes)
	})
	t.Run("zero near uses default", func(t *testing.T) {
		l0, r0, err := BuildProjections(g, 0, 100)
		require.NoError(t, err)
		ld, rd, err := BuildProjections(g, DefaultNearPlane, 100)
		require.NoError(t, err)
		assert.Equal(t, ld, l0)
		assert.Equal(t, rd, r0)
	})
}

func TestBuildProjections_MalformedGeometry(t *testing.T) {
	g, err := Derive(devKitProfile())
	require.NoError(t, err)

	g.Fov = 0
	_, _, err = BuildProjections(g, 0.1, 100)
	assert.ErrorIs(t, err, ErrMalformedCalibration)

	g.Fov = -1
	_, _, err = BuildProjections(g, 0.1, 100)
	assert.ErrorIs(t, err, ErrMalformedCalibration)
}

func TestEyeExtents_MirrorWhenLensesCentered(t *testing.T) {
	g, err := Derive(devKitProfile())
	require.NoError(t, err)
	g.ILD, g.ILDHalf = 0, 0

	l := EyeExtents(g, 0.2, EyeLeft)
	r := EyeExtents(g, 0.2, EyeRight)
	assert.Equal(t, l.Left, -r.Right)
	assert.Equal(t, l.Right, -r.Left)
	assert.Equal(t, l.Top, -l.Bottom)
}

func TestEyeExtents_SkewDirection(t *testing.T) {
	g, err := Derive(devKitProfile())
	require.NoError(t, err)

	l := EyeExtents(g, 0.2, EyeLeft)
	r := EyeExtents(g, 0.2, EyeRight)

	// The left eye extends further to the left than to the right, the right eye the opposite way.
	assert.Greater(t, -l.Left, l.Right)
	assert.Greater(t, r.Right, -r.Left)
	assert.True(t, near(l.Left, -r.Right))
	assert.True(t, near(l.Right, -r.Left))

	top := float32(math.Tan(float64(g.Fov/2))) * 0.2
	assert.True(t, near(top, l.Top))
	assert.True(t, near(g.AspectRatio*-top*(1+g.ILDHalf), l.Left))
	assert.True(t, near(g.AspectRatio*top*(1-g.ILDHalf), l.Right))
}

func TestBuildProjections_MapsFrustumEdgesToClipSpace(t *testing.T) {
	g, err := Derive(devKitProfile())
	require.NoError(t, err)
	const n, f = float32(0.2), float32(100)

	left, right, err := BuildProjections(g, n, f)
	require.NoError(t, err)

	project := func(m [16]float32, p [3]float32) [3]float32 {
		c := common.Transform4(m[:], [4]float32{p[0], p[1], p[2], 1})
		return [3]float32{c[0] / c[3], c[1] / c[3], c[2] / c[3]}
	}

	for _, eye := range Eyes {
		m, shift := left, g.IPDHalf
		if eye == EyeRight {
			m, shift = right, -g.IPDHalf
		}
		ext := EyeExtents(g, n, eye)

		// The eye translation is applied before the frustum, so undo it on the test point.
		lo := project(m, [3]float32{ext.Left - shift, ext.Bottom, -n})
		hi := project(m, [3]float32{ext.Right - shift, ext.Top, -n})
		assert.True(t, near(-1, lo[0]), "%s eye left edge x=%v", eye, lo[0])
		assert.True(t, near(-1, lo[1]), "%s eye bottom edge y=%v", eye, lo[1])
		assert.True(t, near(-1, lo[2]), "%s eye near depth z=%v", eye, lo[2])
		assert.True(t, near(1, hi[0]), "%s eye right edge x=%v", eye, hi[0])
		assert.True(t, near(1, hi[1]), "%s eye top edge y=%v", eye, hi[1])

		farPt := project(m, [3]float32{-shift, 0, -f})
		assert.True(t, scalar.EqualWithinAbs(1, float64(farPt[2]), 1e-3), "%s eye far depth z=%v", eye, farPt[2])
	}
}

func TestViewport_Partition(t *testing.T) {
	l := LeftViewport(1280, 800)
	r := RightViewport(1280, 800)

	assert.Equal(t, Rect{X: 0, Y: 0, Width: 640, Height: 800}, l)
	assert.Equal(t, Rect{X: 640, Y: 0, Width: 640, Height: 800}, r)
	assert.Equal(t, uint32(1280), l.Width+r.Width)
	assert.Equal(t, l, Viewport(EyeLeft, 1280, 800))
	assert.Equal(t, r, Viewport(EyeRight, 1280, 800))
}

func TestViewport_OddWidthRoundsDown(t *testing.T) {
	l := LeftViewport(1281, 800)
	r := RightViewport(1281, 800)
	assert.Equal(t, uint32(640), l.Width)
	assert.Equal(t, uint32(640), r.X)
	assert.Equal(t, uint32(1280), l.Width+r.Width)
}

func TestEye_String(t *testing.T) {
	assert.Equal(t, "left", EyeLeft.String())
	assert.Equal(t, "right", EyeRight.String())
	assert.Equal(t, "unknown", Eye(7).String())
}
