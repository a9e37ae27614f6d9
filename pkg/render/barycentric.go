package render

import (
	"image"

	"github.com/taigrr/softras/pkg/math3d"
)

// Degenerate is returned by Barycentric for triangles with zero area.
var Degenerate = math3d.Vec3{X: -1, Y: -1, Z: -1}

// Barycentric returns the weights (u, v, w) of p relative to triangle abc,
// so that p = u*a + v*b + w*c. Zero-area triangles yield Degenerate.
//
// The numerators are evaluated in integer arithmetic, so the sign of each
// weight is exact and pixels on a shared edge are covered consistently.
func Barycentric(p, a, b, c image.Point) math3d.Vec3 {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	if v0.X*v1.Y-v0.Y*v1.X == 0 {
		return Degenerate
	}
	v2 := p.Sub(a)

	d00 := dot(v0, v0)
	d01 := dot(v0, v1)
	d11 := dot(v1, v1)
	d20 := dot(v2, v0)
	d21 := dot(v2, v1)
	denom := d00*d11 - d01*d01

	vn := d11*d20 - d01*d21
	wn := d00*d21 - d01*d20
	un := denom - vn - wn

	f := 1 / float64(denom)
	return math3d.Vec3{X: float64(un) * f, Y: float64(vn) * f, Z: float64(wn) * f}
}

// Covers reports whether barycentric weights describe a point inside (or on
// the edge of) the triangle.
func Covers(bc math3d.Vec3) bool {
	return bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0
}

func dot(a, b image.Point) int {
	return a.X*b.X + a.Y*b.Y
}
