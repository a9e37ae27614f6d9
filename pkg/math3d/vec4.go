package math3d

// Vec4 represents a homogeneous 3D point in clip space.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// Point4 lifts a position to homogeneous coordinates (w=1).
func Point4(v Vec3) Vec4 {
	return Vec4{v.X, v.Y, v.Z, 1}
}

// Vec3 returns the Vec3 portion (ignoring W).
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide returns the Vec3 after dividing by W. The caller is
// responsible for rejecting a zero W beforehand.
func (v Vec4) PerspectiveDivide() Vec3 {
	inv := 1 / v.W
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}
