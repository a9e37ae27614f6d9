package render

import (
	"math"

	"github.com/taigrr/softras/pkg/math3d"
)

// TangentEpsilon is the smallest UV determinant magnitude for which a
// tangent is computed.
const TangentEpsilon = 1e-12

// TriangleTangent computes the tangent of a triangle from its positions and
// UVs. It returns false when the UV mapping is degenerate.
func TriangleTangent(pos [3]math3d.Vec3, uv [3]math3d.Vec2) (math3d.Vec3, bool) {
	e1 := pos[1].Sub(pos[0])
	e2 := pos[2].Sub(pos[0])
	d1 := uv[1].Sub(uv[0])
	d2 := uv[2].Sub(uv[0])

	det := d1.X*d2.Y - d2.X*d1.Y
	if math.Abs(det) < TangentEpsilon {
		return math3d.Vec3{}, false
	}
	f := 1 / det
	return e1.Scale(d2.Y).Sub(e2.Scale(d1.Y)).Scale(f), true
}

// TBN is an orthonormal tangent-space basis with rows tangent, bitangent
// and normal.
type TBN struct {
	basis math3d.Mat3
}

// NewTBN builds a basis from a tangent and a normal, both in world space.
// The tangent is re-orthogonalized against the normal (Gram-Schmidt) and
// the bitangent is normal × tangent. It returns false when the normal is
// zero or the tangent is parallel to it.
func NewTBN(tangent, normal math3d.Vec3) (TBN, bool) {
	n := normal.Normalize()
	if n.LenSq() == 0 {
		return TBN{}, false
	}
	t := tangent.Sub(n.Scale(tangent.Dot(n)))
	if t.LenSq() <= TangentEpsilon*tangent.LenSq() {
		return TBN{}, false
	}
	t = t.Normalize()
	b := n.Cross(t)
	return TBN{basis: math3d.Mat3FromRows(t, b, n)}, true
}

// Basis returns the matrix with rows T, B, N.
func (m TBN) Basis() math3d.Mat3 {
	return m.basis
}

// Tangent returns the first row.
func (m TBN) Tangent() math3d.Vec3 { return m.basis.Row(0) }

// Bitangent returns the second row.
func (m TBN) Bitangent() math3d.Vec3 { return m.basis.Row(1) }

// Normal returns the third row.
func (m TBN) Normal() math3d.Vec3 { return m.basis.Row(2) }

// ShadeNormal converts a normal-map sample with components in [0, 1] into
// a unit world-space normal.
func (m TBN) ShadeNormal(sample math3d.Vec3) math3d.Vec3 {
	inv, ok := m.basis.Inverse()
	if !ok {
		inv = m.basis.Transpose()
	}
	return inv.MulVec3(DecodeNormalSample(sample)).Normalize()
}

// DecodeNormalSample remaps [0, 1] components to [-1, 1].
func DecodeNormalSample(s math3d.Vec3) math3d.Vec3 {
	return math3d.Vec3{X: s.X*2 - 1, Y: s.Y*2 - 1, Z: s.Z*2 - 1}
}
