// Package models loads triangle meshes from OBJ and glTF files into a
// common indexed representation.
package models

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/taigrr/softras/pkg/math3d"
)

// Mesh represents a 3D mesh with vertices, faces, and materials.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2 // Bottom-left origin
}

// Face represents a triangle face with vertex indices and material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the subset of a surface description the rasterizer uses.
type Material struct {
	Name      string
	BaseColor [4]float64  // RGBA in 0-1 range
	BaseMap   image.Image // Optional base color texture
	NormalMap image.Image // Optional tangent-space normal map
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// FromArrays builds a mesh from flat, non-indexed triangle arrays: nine
// position floats per triangle, nine normal floats per triangle (or none)
// and six UV floats per triangle (or none). Missing normals are computed
// per face.
func FromArrays(name string, positions, normals, uvs []float64) (*Mesh, error) {
	if len(positions)%9 != 0 {
		return nil, fmt.Errorf("positions: length %d is not a multiple of 9", len(positions))
	}
	count := len(positions) / 9
	if count == 0 {
		return nil, ErrEmptyMesh
	}
	if len(normals) != 0 && len(normals) != len(positions) {
		return nil, fmt.Errorf("normals: length %d, want %d", len(normals), len(positions))
	}
	if len(uvs) != 0 && len(uvs) != count*6 {
		return nil, fmt.Errorf("uvs: length %d, want %d", len(uvs), count*6)
	}

	m := NewMesh(name)
	m.Vertices = make([]MeshVertex, count*3)
	m.Faces = make([]Face, count)
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = math3d.V3(positions[i*3], positions[i*3+1], positions[i*3+2])
		if len(normals) > 0 {
			v.Normal = math3d.V3(normals[i*3], normals[i*3+1], normals[i*3+2])
		}
		if len(uvs) > 0 {
			v.UV = math3d.V2(uvs[i*2], uvs[i*2+1])
		}
	}
	for i := range m.Faces {
		m.Faces[i] = Face{V: [3]int{i * 3, i*3 + 1, i*3 + 2}, Material: -1}
	}
	if len(normals) == 0 {
		m.CalculateNormals()
	}
	m.CalculateBounds()
	return m, nil
}

// Arrays flattens the mesh into non-indexed arrays grouped in runs of three
// vertices per triangle.
func (m *Mesh) Arrays() (positions, normals, uvs []float64, triangles int) {
	triangles = len(m.Faces)
	positions = make([]float64, 0, triangles*9)
	normals = make([]float64, 0, triangles*9)
	uvs = make([]float64, 0, triangles*6)
	for _, f := range m.Faces {
		for _, vi := range f.V {
			v := m.Vertices[vi]
			positions = append(positions, v.Position.X, v.Position.Y, v.Position.Z)
			normals = append(normals, v.Normal.X, v.Normal.Y, v.Normal.Z)
			uvs = append(uvs, v.UV.X, v.UV.Y)
		}
	}
	return positions, normals, uvs, triangles
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// HasNormals reports whether any vertex carries a non-zero normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			return true
		}
	}
	return false
}

// faceNormal returns the unit normal of face f, counter-clockwise front.
func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}

// CalculateNormals assigns each face's normal to its vertices. Vertices
// shared between faces keep the normal of the last face; use
// CalculateSmoothNormals for indexed meshes.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		n := m.faceNormal(f)
		for _, vi := range f.V {
			m.Vertices[vi].Normal = n
		}
	}
}

// CalculateSmoothNormals computes area-weighted averaged normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0)) // area weighted

		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(n)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Transform applies a transformation matrix to all vertices. Normals use
// the inverse-transpose so non-uniform scale keeps them perpendicular.
func (m *Mesh) Transform(mat math3d.Mat4) {
	nm := mat.NormalMatrix()
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulPoint(m.Vertices[i].Position)
		m.Vertices[i].Normal = nm.MulVec3(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// Normalize centers the mesh on the origin and scales it uniformly so its
// largest dimension equals size.
func (m *Mesh) Normalize(size float64) {
	m.CalculateBounds()
	dims := m.Size()
	maxDim := math.Max(dims.X, math.Max(dims.Y, dims.Z))
	if maxDim == 0 {
		m.Transform(math3d.Translate(m.Center().Negate()))
		return
	}
	s := size / maxDim
	m.Transform(math3d.ScaleUniform(s).Mul(math3d.Translate(m.Center().Negate())))
}

// GetVertex returns the position, normal, and UV for vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material index for face i.
// Returns -1 if no material assigned.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// FaceColor returns the base color of face i's material.
// Implements render.ColoredMeshRenderer interface.
func (m *Mesh) FaceColor(i int) (color.RGBA, bool) {
	mat := m.GetMaterial(m.Faces[i].Material)
	if mat == nil {
		return color.RGBA{}, false
	}
	c := mat.BaseColor
	return color.RGBA{R: unit8(c[0]), G: unit8(c[1]), B: unit8(c[2]), A: unit8(c[3])}, true
}

// Maps returns the first base color and normal textures found in the
// materials. Either may be nil.
func (m *Mesh) Maps() (base, normal image.Image) {
	for _, mat := range m.Materials {
		if base == nil {
			base = mat.BaseMap
		}
		if normal == nil {
			normal = mat.NormalMap
		}
	}
	return base, normal
}

// GetBounds returns the axis-aligned bounding box.
// Implements render.BoundedMeshRenderer interface.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

func unit8(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}
