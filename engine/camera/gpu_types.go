package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUStereoCameraUniformSource is the canonical WGSL definition of the StereoCameraUniform struct.
// Matches GPUStereoCameraUniform layout exactly (144 bytes, std430 aligned).
//
//go:embed assets/stereo_camera_uniform.wgsl
var GPUStereoCameraUniformSource string

// GPUStereoCameraUniform is the GPU-aligned representation of the stereo camera uniform buffer.
// A shader selects the eye's matrix by index (0 = left, 1 = right).
// Size: 144 bytes (std430 / WGSL aligned).
type GPUStereoCameraUniform struct {
	ViewProj       [2][16]float32 // offset   0: per-eye view-projection matrices (array<mat4x4<f32>, 2>)
	CameraPosition [3]float32     // offset 128: world-space head position (vec3<f32>)
	_pad           float32        // offset 140: padding to 144 bytes
}

// Size returns the size of the GPUStereoCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUStereoCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUStereoCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUStereoCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for eye := range 2 {
		for i := range 16 {
			binary.LittleEndian.PutUint32(buf[eye*64+i*4:], math.Float32bits(g.ViewProj[eye][i]))
		}
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	binary.LittleEndian.PutUint32(buf[140:], 0) // _pad
	return buf
}
