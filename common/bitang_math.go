package common

import "math"

// Translate4 writes a 4x4 column-major translation matrix into out.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - x, y, z: translation components
func Translate4(out []float32, x, y, z float32) {
	Identity(out)
	out[12], out[13], out[14] = x, y, z
}

// RotateX4 writes a 4x4 column-major rotation matrix around the X axis into out.
func RotateX4(out []float32, angle float32) {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	Identity(out)
	out[5], out[6] = c, s
	out[9], out[10] = -s, c
}

// RotateY4 writes a 4x4 column-major rotation matrix around the Y axis into out.
func RotateY4(out []float32, angle float32) {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	Identity(out)
	out[0], out[2] = c, -s
	out[8], out[10] = s, c
}

// RotateZ4 writes a 4x4 column-major rotation matrix around the Z axis into out.
func RotateZ4(out []float32, angle float32) {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	Identity(out)
	out[0], out[1] = c, s
	out[4], out[5] = -s, c
}

// PerspectiveInfiniteLH writes a left-handed perspective projection matrix with an
// infinite far plane into out, matching WebGPU/D3D clip space (z in [0,1]).
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
func PerspectiveInfiniteLH(out []float32, fovY, aspect, near float32) {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	for i := range out[:16] {
		out[i] = 0
	}
	out[0] = f / aspect
	out[5] = f
	out[10] = 1
	out[11] = 1
	out[14] = -near
}

// OrthographicLH writes a left-handed orthographic projection matrix into out, given
// symmetric half-extents on X/Y and near/far planes on Z.
func OrthographicLH(out []float32, halfWidth, halfHeight, near, far float32) {
	Identity(out)
	out[0] = 1 / halfWidth
	out[5] = 1 / halfHeight
	out[10] = 1 / (far - near)
	out[14] = -near / (far - near)
}

// Mat4FromMat3Upper extracts the upper-left 3x3 rotation/scale block of a 4x4 column-major
// matrix and applies it to a 3-vector, returning the transformed vector. Equivalent to
// multiplying by mat3(m) in GLSL, ignoring translation.
func Mat4FromMat3Upper(m []float32, v [3]float32) [3]float32 {
	return [3]float32{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2],
	}
}

// NormalizeVec3 returns v scaled to unit length, or v unchanged if it is (near) zero.
func NormalizeVec3(v [3]float32) [3]float32 {
	lenSq := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
	if lenSq < 1e-20 {
		return v
	}
	inv := 1.0 / float32(math.Sqrt(float64(lenSq)))
	return [3]float32{v[0] * inv, v[1] * inv, v[2] * inv}
}

// ClampF32 clamps v to the inclusive range [lo, hi].
func ClampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
