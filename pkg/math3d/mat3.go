package math3d

// Mat3 is a 3x3 matrix stored in column-major order, matching Mat4.
//
// | 0 3 6 |
// | 1 4 7 |
// | 2 5 8 |
type Mat3 [9]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mat3FromRows builds a matrix whose rows are r0, r1 and r2.
func Mat3FromRows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{
		r0.X, r1.X, r2.X,
		r0.Y, r1.Y, r2.Y,
		r0.Z, r1.Z, r2.Z,
	}
}

// Row returns row i (0-2).
func (m Mat3) Row(i int) Vec3 {
	return Vec3{m[i], m[i+3], m[i+6]}
}

// MulVec3 returns m * v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant returns the determinant of the matrix.
func (m Mat3) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[7]*m[5]) -
		m[3]*(m[1]*m[8]-m[7]*m[2]) +
		m[6]*(m[1]*m[5]-m[4]*m[2])
}

// Inverse returns the inverse of the matrix and false if it is singular.
func (m Mat3) Inverse() (Mat3, bool) {
	det := m.Determinant()
	if det == 0 {
		return Identity3(), false
	}
	inv := 1 / det
	return Mat3{
		(m[4]*m[8] - m[7]*m[5]) * inv,
		(m[7]*m[2] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[4]*m[2]) * inv,
		(m[6]*m[5] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[6]*m[2]) * inv,
		(m[3]*m[2] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[6]*m[4]) * inv,
		(m[6]*m[1] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[3]*m[1]) * inv,
	}, true
}
