package math

// Vec3 is a 3D vector. Records also use it for RGB colors and Euler angles.
type Vec3 struct {
	X, Y, Z float32
}
