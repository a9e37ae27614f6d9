package render

import (
	"image"

	"github.com/taigrr/softras/pkg/math3d"
)

// TriangleData is everything the fill stage needs for one triangle. It is
// built fresh for each triangle of each frame.
type TriangleData struct {
	Pos        [3]math3d.Vec3 // Device space: NDC x, y and negated z
	UV         [3]math3d.Vec2
	Normal     [3]math3d.Vec3 // World space
	Tangent    math3d.Vec3    // World space, shared by the three vertices
	HasTangent bool
	Color      Color // Base color when not textured
}

// MeshRenderer is the read-only view of a mesh the rasterizer consumes.
// It is declared here so render does not import models.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer adds bounds for whole-mesh frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// ColoredMeshRenderer supplies per-face material colors.
type ColoredMeshRenderer interface {
	MeshRenderer
	FaceColor(i int) (Color, bool)
}

// Rasterizer draws triangles into a FrameContext. A single type covers
// every mode; Caps selects the path.
type Rasterizer struct {
	Caps      Capabilities
	LightDir  math3d.Vec3 // Direction toward the light
	WireColor Color
	Diffuse   *Texture // Used when Caps.Textured
	NormalMap *Texture // Used when Caps.NormalMapped

	// ColorFn picks the base color of untextured triangle i when the mesh
	// has no material color. Nil means a fixed pseudo-random palette.
	ColorFn func(i int) Color
}

// NewRasterizer creates a rasterizer from a config.
func NewRasterizer(cfg Config) *Rasterizer {
	return &Rasterizer{
		Caps:      cfg.Caps,
		LightDir:  cfg.LightDir,
		WireColor: cfg.WireColor,
	}
}

// DrawTriangle fills or outlines one triangle according to the
// capabilities.
func (r *Rasterizer) DrawTriangle(fc *FrameContext, tri *TriangleData) {
	if r.Caps.WireframeOnly {
		r.DrawWireTriangle(fc, tri)
		return
	}
	r.fillTriangle(fc, tri)
}

// DrawWireTriangle outlines a triangle with three NDC lines in WireColor.
// An edge is drawn only when both of its endpoints are inside NDC.
func (r *Rasterizer) DrawWireTriangle(fc *FrameContext, tri *TriangleData) {
	fc.Stats.Drawn++
	for i := range 3 {
		fc.Color.DrawLineNDC(tri.Pos[i], tri.Pos[(i+1)%3], r.WireColor)
	}
}

func (r *Rasterizer) fillTriangle(fc *FrameContext, tri *TriangleData) {
	for i := range 3 {
		if !InNDCCube(tri.Pos[i]) {
			fc.Stats.OutsideNDC++
			return
		}
	}

	w, h := fc.Width(), fc.Height()
	var s [3]image.Point
	for i := range 3 {
		s[i] = ViewportMap(tri.Pos[i], w, h)
	}
	if Barycentric(s[0], s[0], s[1], s[2]) == Degenerate {
		fc.Stats.Degenerate++
		return
	}
	fc.Stats.Drawn++

	minX := max(0, min(s[0].X, s[1].X, s[2].X))
	maxX := min(w-1, max(s[0].X, s[1].X, s[2].X))
	minY := max(0, min(s[0].Y, s[1].Y, s[2].Y))
	maxY := min(h-1, max(s[0].Y, s[1].Y, s[2].Y))

	light := r.LightDir.Normalize()
	diffuse := r.Caps.Textured && r.Diffuse != nil
	normalMapped := r.Caps.NormalMapped && r.NormalMap != nil
	if normalMapped && !tri.HasTangent {
		fc.Stats.NoTangent++
		normalMapped = false
	}
	zs := math3d.V3(tri.Pos[0].Z, tri.Pos[1].Z, tri.Pos[2].Z)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc := Barycentric(image.Point{X: x, Y: y}, s[0], s[1], s[2])
			if !Covers(bc) {
				continue
			}

			z := zs.Dot(bc)
			if r.Caps.DepthTest && !fc.Depth.Closer(x, y, z) {
				continue
			}

			uv := weightedUV(tri.UV, bc)
			n := math3d.Weighted(tri.Normal[0], tri.Normal[1], tri.Normal[2], bc).Normalize()
			if normalMapped {
				if tbn, ok := NewTBN(tri.Tangent, n); ok {
					n = tbn.ShadeNormal(r.NormalMap.SampleNormalized(uv.X, uv.Y))
				}
			}

			c := tri.Color
			if diffuse {
				c = r.Diffuse.Sample(uv.X, uv.Y)
			}

			fc.Color.SetPixel(x, y, Shade(c, light.Dot(n)))
			fc.Depth.Set(x, y, z)
			fc.Stats.PixelsWritten++
		}
	}
}

// BuildTriangle assembles the TriangleData for face i of a mesh using the
// frame's transforms. It returns false when a vertex cannot be projected.
func (r *Rasterizer) BuildTriangle(fc *FrameContext, mesh MeshRenderer, i int) (TriangleData, bool) {
	var tri TriangleData
	var obj [3]math3d.Vec3

	nm := fc.Transforms.NormalMatrix()
	face := mesh.GetFace(i)
	for k, vi := range face {
		pos, normal, uv := mesh.GetVertex(vi)
		p, ok := fc.Transforms.Project(pos)
		if !ok {
			fc.Stats.ClipRejected++
			Logger().Debug("triangle skipped: clip w out of range", "triangle", i)
			return TriangleData{}, false
		}
		obj[k] = pos
		tri.Pos[k] = p
		tri.UV[k] = uv
		tri.Normal[k] = nm.MulVec3(normal).Normalize()
	}

	if r.Caps.NormalMapped {
		if t, ok := TriangleTangent(obj, tri.UV); ok {
			tri.Tangent = nm.MulVec3(t)
			tri.HasTangent = true
		} else {
			Logger().Debug("triangle has no tangent: degenerate UVs", "triangle", i)
		}
	}

	tri.Color = r.baseColor(mesh, i)
	return tri, true
}

func (r *Rasterizer) baseColor(mesh MeshRenderer, i int) Color {
	if cm, ok := mesh.(ColoredMeshRenderer); ok {
		if c, ok := cm.FaceColor(i); ok {
			return c
		}
	}
	if r.ColorFn != nil {
		return r.ColorFn(i)
	}
	return paletteColor(i)
}

// DrawMesh draws every triangle of a mesh with the frame's current model
// and view. Meshes providing bounds are first tested against the view
// frustum and skipped entirely when outside.
func (r *Rasterizer) DrawMesh(fc *FrameContext, mesh MeshRenderer) {
	if r.cullMesh(fc, mesh) {
		return
	}
	for i := range mesh.TriangleCount() {
		fc.Stats.Triangles++
		tri, ok := r.BuildTriangle(fc, mesh, i)
		if !ok {
			continue
		}
		r.DrawTriangle(fc, &tri)
	}
}

// cullMesh reports whether a bounded mesh lies entirely outside the frustum.
func (r *Rasterizer) cullMesh(fc *FrameContext, mesh MeshRenderer) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}
	fc.Stats.MeshesTested++

	lo, hi := bounded.GetBounds()
	world := AABB{Min: lo, Max: hi}.Transform(fc.Transforms.Model())
	frustum := NewFrustumFromMatrix(fc.Transforms.ViewProjection())
	if !frustum.IntersectAABB(world) {
		fc.Stats.MeshesCulled++
		return true
	}
	return false
}

func weightedUV(uv [3]math3d.Vec2, bc math3d.Vec3) math3d.Vec2 {
	return math3d.Vec2{
		X: uv[0].X*bc.X + uv[1].X*bc.Y + uv[2].X*bc.Z,
		Y: uv[0].Y*bc.X + uv[1].Y*bc.Y + uv[2].Y*bc.Z,
	}
}
