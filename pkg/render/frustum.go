package render

import (
	"github.com/taigrr/softras/pkg/math3d"
)

// Plane is Ax + By + Cz + D = 0 with (A, B, C) as Normal.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// normalize scales the plane so its normal has unit length.
func (p *Plane) normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// Distance returns the signed distance from the plane to a point.
// Positive is on the side the normal points to.
func (p Plane) Distance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds six inward-facing planes: left, right, bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustumFromMatrix extracts the planes of a clip matrix (Gribb/Hartmann).
// With a view-projection matrix the planes are in world space; with a full
// MVP they are in object space.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	// Row i of a column-major matrix is m[i], m[i+4], m[i+8], m[i+12].
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	w, ww := row(3)

	var f Frustum
	for axis := range 3 {
		n, d := row(axis)
		f.Planes[axis*2] = Plane{Normal: w.Add(n), D: ww + d}
		f.Planes[axis*2+1] = Plane{Normal: w.Sub(n), D: ww - d}
	}
	for i := range f.Planes {
		f.Planes[i].normalize()
	}
	return f
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the center of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Transform returns the box bounding all eight transformed corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	out := AABB{}
	for i := range 8 {
		corner := math3d.V3(
			pick(i&1 != 0, b.Max.X, b.Min.X),
			pick(i&2 != 0, b.Max.Y, b.Min.Y),
			pick(i&4 != 0, b.Max.Z, b.Min.Z),
		)
		p := m.MulPoint(corner)
		if i == 0 {
			out.Min, out.Max = p, p
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// IntersectAABB reports whether any part of the box may be inside the
// frustum. It tests the corner furthest along each plane normal, so it can
// report false positives near frustum corners but never false negatives.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		p := math3d.V3(
			pick(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			pick(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			pick(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.Distance(p) < 0 {
			return false
		}
	}
	return true
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
