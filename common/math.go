package common

import (
	"math"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// IdentityMatrix returns a fresh 4x4 identity matrix by value.
//
// Returns:
//   - [16]float32: the identity matrix (column-major)
func IdentityMatrix() [16]float32 {
	return [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (OpenGL/WebGPU convention).
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// FrustumMatrix creates an off-axis perspective projection matrix from explicit clip extents.
// This is the glFrustum formulation: right-handed eye space looking down -Z, OpenGL clip
// space with depth in [-1, 1]. The left/right and bottom/top extents are measured on the
// near plane and need not be symmetric about the optical axis.
//
// Reference: https://registry.khronos.org/OpenGL-Refpages/gl2.1/xhtml/glFrustum.xml
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - left, right: horizontal extents on the near plane
//   - bottom, top: vertical extents on the near plane
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func FrustumMatrix(out []float32, left, right, bottom, top, near, far float32) {
	Identity(out)

	out[0] = (2 * near) / (right - left)
	out[5] = (2 * near) / (top - bottom)
	out[8] = (right + left) / (right - left)
	out[9] = (top + bottom) / (top - bottom)
	out[10] = -(far + near) / (far - near)
	out[11] = -1.0
	out[14] = -(2 * far * near) / (far - near)
	out[15] = 0.0
}

// Translation creates a translation matrix.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - x, y, z: translation along each axis
func Translation(out []float32, x, y, z float32) {
	Identity(out)
	out[12] = x
	out[13] = y
	out[14] = z
}

// QuatToMat4 converts a unit quaternion into a 4x4 rotation matrix (column-major).
// The quaternion is not normalized here; callers pass unit quaternions.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - q: the rotation quaternion
func QuatToMat4(out []float32, q Quat) {
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z

	out[0] = 1 - 2*(yy+zz)
	out[1] = 2 * (xy + wz)
	out[2] = 2 * (xz - wy)
	out[3] = 0

	out[4] = 2 * (xy - wz)
	out[5] = 1 - 2*(xx+zz)
	out[6] = 2 * (yz + wx)
	out[7] = 0

	out[8] = 2 * (xz + wy)
	out[9] = 2 * (yz - wx)
	out[10] = 1 - 2*(xx+yy)
	out[11] = 0

	out[12], out[13], out[14], out[15] = 0, 0, 0, 1
}

// Transform4 applies a column-major 4x4 matrix to a homogeneous point.
//
// Parameters:
//   - m: the matrix (16 elements, column-major)
//   - v: the point (x, y, z, w)
//
// Returns:
//   - [4]float32: the transformed point
func Transform4(m []float32, v [4]float32) [4]float32 {
	var r [4]float32
	for row := 0; row < 4; row++ {
		r[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return r
}

// Invert4 computes the inverse of a 4x4 column-major matrix using the Laplace
// expansion (cofactor) method. If the matrix is singular (determinant ≈ 0) the
// output is left unchanged and the function returns false.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(out, m []float32) bool {
	// 2x2 sub-determinants of the upper-left and lower-right quadrants.
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return false
	}

	invDet := 1.0 / det

	out[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * invDet
	out[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * invDet
	out[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * invDet
	out[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * invDet

	out[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * invDet
	out[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * invDet
	out[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * invDet
	out[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * invDet

	out[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * invDet
	out[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * invDet
	out[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * invDet
	out[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * invDet

	out[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * invDet
	out[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * invDet
	out[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * invDet
	out[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * invDet

	return true
}

// Deg converts radians to degrees.
func Deg(rad float32) float32 {
	return rad * (180.0 / math.Pi)
}
