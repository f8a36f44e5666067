package hmd

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/Carmen-Shannon/oxy-hmd/common"
)

// ToEngineQuaternion converts a sensor quaternion into the engine's quaternion.
// Both use w + xi + yj + zk, so this is a component-for-component copy with no axis flips.
// Handedness changes belong to the renderer.
//
// Parameters:
//   - q: the sensor orientation
//
// Returns:
//   - common.Quat: the same rotation in engine form
func ToEngineQuaternion(q quat.Number) common.Quat {
	return common.Quat{
		W: float32(q.Real),
		X: float32(q.Imag),
		Y: float32(q.Jmag),
		Z: float32(q.Kmag),
	}
}

// RotationMatrix converts an engine quaternion into a 4x4 rotation matrix (column-major).
//
// Parameters:
//   - q: the orientation
//
// Returns:
//   - [16]float32: the rotation matrix
func RotationMatrix(q common.Quat) [16]float32 {
	var m [16]float32
	common.QuatToMat4(m[:], q)
	return m
}

// EulerYXZ decomposes an orientation into yaw (about Y), pitch (about X) and roll (about Z), applied
// in that order. Used for diagnostics only; the renderer consumes the quaternion or its matrix.
//
// Parameters:
//   - q: the orientation
//
// Returns:
//   - yaw, pitch, roll: angles in radians
func EulerYXZ(q common.Quat) (yaw, pitch, roll float32) {
	m := RotationMatrix(q)

	// Row/column names refer to the row-major rotation; m is column-major.
	r02, r12, r22 := m[8], m[9], m[10]
	r10, r11 := m[1], m[5]

	sp := float64(-r12)
	if sp > 1 {
		sp = 1
	} else if sp < -1 {
		sp = -1
	}

	yaw = float32(math.Atan2(float64(r02), float64(r22)))
	pitch = float32(math.Asin(sp))
	roll = float32(math.Atan2(float64(r10), float64(r11)))
	return yaw, pitch, roll
}
