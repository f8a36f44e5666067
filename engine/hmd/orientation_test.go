package hmd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/num/quat"

	"github.com/Carmen-Shannon/oxy-hmd/common"
)

func TestToEngineQuaternion_IdentityRemap(t *testing.T) {
	cases := []quat.Number{
		{Real: 1},
		{Real: 0.5, Imag: 0.5, Jmag: 0.5, Kmag: 0.5},
		{Real: 0, Imag: 0, Jmag: 0, Kmag: 1},
		{Real: 0.25, Imag: -0.5, Jmag: 0.75, Kmag: -0.125},
	}
	for _, q := range cases {
		got := ToEngineQuaternion(q)
		assert.Equal(t, common.Quat{W: float32(q.Real), X: float32(q.Imag), Y: float32(q.Jmag), Z: float32(q.Kmag)}, got)
	}
}

func TestRotationMatrix_Identity(t *testing.T) {
	assert.Equal(t, common.IdentityMatrix(), RotationMatrix(common.IdentityQuat()))
}

func TestRotationMatrix_YawQuarterTurn(t *testing.T) {
	h := math.Pi / 4
	q := common.Quat{W: float32(math.Cos(h)), Y: float32(math.Sin(h))}
	m := RotationMatrix(q)

	// +90° about Y takes +X to -Z and +Z to +X.
	x := common.Transform4(m[:], [4]float32{1, 0, 0, 0})
	z := common.Transform4(m[:], [4]float32{0, 0, 1, 0})
	assert.InDelta(t, 0, x[0], 1e-6)
	assert.InDelta(t, -1, x[2], 1e-6)
	assert.InDelta(t, 1, z[0], 1e-6)
	assert.InDelta(t, 0, z[2], 1e-6)
}

func TestRotationMatrix_IsOrthonormal(t *testing.T) {
	q := common.Quat{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5}
	m := RotationMatrix(q)

	var inv [16]float32
	assert.True(t, common.Invert4(inv[:], m[:]))
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			assert.InDelta(t, m[row*4+col], inv[col*4+row], 1e-5, "inverse must equal transpose")
		}
	}
}

func TestEulerYXZ_SingleAxis(t *testing.T) {
	const angle = 0.4
	s, c := float32(math.Sin(angle/2)), float32(math.Cos(angle/2))

	yaw, pitch, roll := EulerYXZ(common.Quat{W: c, Y: s})
	assert.InDelta(t, angle, yaw, 1e-5)
	assert.InDelta(t, 0, pitch, 1e-5)
	assert.InDelta(t, 0, roll, 1e-5)

	yaw, pitch, roll = EulerYXZ(common.Quat{W: c, X: s})
	assert.InDelta(t, 0, yaw, 1e-5)
	assert.InDelta(t, angle, pitch, 1e-5)
	assert.InDelta(t, 0, roll, 1e-5)

	yaw, pitch, roll = EulerYXZ(common.Quat{W: c, Z: s})
	assert.InDelta(t, 0, yaw, 1e-5)
	assert.InDelta(t, 0, pitch, 1e-5)
	assert.InDelta(t, angle, roll, 1e-5)
}
