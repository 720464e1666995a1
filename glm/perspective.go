package glm

import "math"

// Perspective builds a right handed projection matrix. Depth is mapped
// into the [0, 1] range used by webgpu, near ends up at 0.
func Perspective[T float](fovY Rad, aspect, near, far T) Mat4[T] {
	focal := T(1 / fastTan(fovY/2))
	depth := 1 / (near - far)

	return Mat4Of([4][4]T{
		{focal / aspect, 0, 0, 0},
		{0, focal, 0, 0},
		{0, 0, far * depth, -1},
		{0, 0, near * far * depth, 0},
	})
}

// LookAt builds a view matrix for a camera at eye looking at target.
// The camera looks down its negative z axis.
func LookAt[T float](eye, target, up Vec3[T]) Mat4[T] {
	forward := target.Sub(eye).Normalize()
	right := forward.Cross(up).Normalize()
	cameraUp := right.Cross(forward)

	return Mat4Of([4][4]T{
		{right[0], cameraUp[0], -forward[0], 0},
		{right[1], cameraUp[1], -forward[1], 0},
		{right[2], cameraUp[2], -forward[2], 0},
		{-right.Dot(eye), -cameraUp.Dot(eye), forward.Dot(eye), 1},
	})
}

func DegToRad[T float](deg T) Rad {
	return Rad(float64(deg) * math.Pi / 180)
}

func RadToDeg[T float](rad Rad) T {
	return T(float64(rad) * 180 / math.Pi)
}
