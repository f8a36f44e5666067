// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"math"
)

// Quat is the engine's rotation quaternion in w + xi + yj + zk form.
// Head orientation reaches the renderer in this form.
type Quat struct {
	W, X, Y, Z float32
}

// IdentityQuat returns the quaternion representing no rotation.
//
// Returns:
//   - Quat: the identity quaternion (1, 0, 0, 0)
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// Conjugate returns the conjugate of the quaternion, which is its inverse for unit quaternions.
//
// Returns:
//   - Quat: the conjugate (w, -x, -y, -z)
func (q Quat) Conjugate() Quat {
	return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Len returns the quaternion magnitude.
//
// Returns:
//   - float32: sqrt(w² + x² + y² + z²)
func (q Quat) Len() float32 {
	return float32(math.Sqrt(float64(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)))
}

func (q Quat) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f, %.4f)", q.W, q.X, q.Y, q.Z)
}

// Vec3 is a plain three-component vector.
type Vec3 [3]float32
