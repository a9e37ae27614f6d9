package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/softras/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file. Polygons are fan-triangulated and the
// result is de-indexed so every triangle owns its three vertices.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, &LoadError{Path: path, Op: "parse", Err: err}
	}
	return mesh, nil
}

// objRef is one corner of a face: indices into the v, vt and vn lists,
// -1 when absent.
type objRef struct {
	v, vt, vn int
}

// objParser accumulates OBJ statements.
type objParser struct {
	positions []math3d.Vec3
	uvs       []math3d.Vec2
	normals   []math3d.Vec3

	materials map[string]int
	mesh      *Mesh
	current   int // material index for new faces
	computed  int // triangles whose normals were computed
}

// ParseOBJ reads OBJ statements from r. Supported statements are v, vt,
// vn, f and usemtl; everything else is ignored.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	p := &objParser{
		materials: map[string]int{},
		mesh:      NewMesh(name),
		current:   -1,
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		if err := p.statement(strings.Fields(text)); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	if len(p.mesh.Faces) == 0 {
		return nil, ErrEmptyMesh
	}
	if p.computed > 0 {
		Logger().Debug("computed face normals", "mesh", name, "triangles", p.computed)
	}
	p.mesh.CalculateBounds()
	return p.mesh, nil
}

func (p *objParser) statement(fields []string) error {
	args := fields[1:]
	switch fields[0] {
	case "v":
		v, err := parseFloats(args, 3)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		p.positions = append(p.positions, math3d.V3(v[0], v[1], v[2]))
	case "vt":
		v, err := parseFloats(args, 2)
		if err != nil {
			return fmt.Errorf("texcoord: %w", err)
		}
		p.uvs = append(p.uvs, math3d.V2(v[0], v[1]))
	case "vn":
		v, err := parseFloats(args, 3)
		if err != nil {
			return fmt.Errorf("normal: %w", err)
		}
		p.normals = append(p.normals, math3d.V3(v[0], v[1], v[2]))
	case "f":
		return p.face(args)
	case "usemtl":
		if len(args) == 0 {
			return errors.New("usemtl: missing name")
		}
		p.useMaterial(args[0])
	}
	return nil
}

func (p *objParser) useMaterial(name string) {
	idx, ok := p.materials[name]
	if !ok {
		idx = len(p.mesh.Materials)
		p.materials[name] = idx
		p.mesh.Materials = append(p.mesh.Materials, Material{
			Name:      name,
			BaseColor: [4]float64{1, 1, 1, 1},
		})
	}
	p.current = idx
}

func (p *objParser) face(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("face: %d vertices, need at least 3", len(args))
	}
	refs := make([]objRef, len(args))
	for i, a := range args {
		ref, err := p.parseRef(a)
		if err != nil {
			return fmt.Errorf("face: %w", err)
		}
		refs[i] = ref
	}
	for i := 1; i+1 < len(refs); i++ {
		p.triangle(refs[0], refs[i], refs[i+1])
	}
	return nil
}

func (p *objParser) triangle(a, b, c objRef) {
	base := len(p.mesh.Vertices)
	refs := [3]objRef{a, b, c}
	missingNormal := false
	for _, r := range refs {
		v := MeshVertex{Position: p.positions[r.v]}
		if r.vt >= 0 {
			v.UV = p.uvs[r.vt]
		}
		if r.vn >= 0 {
			v.Normal = p.normals[r.vn]
		} else {
			missingNormal = true
		}
		p.mesh.Vertices = append(p.mesh.Vertices, v)
	}
	f := Face{V: [3]int{base, base + 1, base + 2}, Material: p.current}
	p.mesh.Faces = append(p.mesh.Faces, f)

	if missingNormal {
		n := p.mesh.faceNormal(f)
		for _, vi := range f.V {
			p.mesh.Vertices[vi].Normal = n
		}
		p.computed++
	}
}

// parseRef parses v, v/vt, v//vn or v/vt/vn. Indices are 1-based; negative
// indices count back from the latest element.
func (p *objParser) parseRef(s string) (objRef, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return objRef{}, fmt.Errorf("bad vertex reference %q", s)
	}
	ref := objRef{v: -1, vt: -1, vn: -1}
	var err error
	if ref.v, err = resolveIndex(parts[0], len(p.positions)); err != nil {
		return objRef{}, fmt.Errorf("position %q: %w", s, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if ref.vt, err = resolveIndex(parts[1], len(p.uvs)); err != nil {
			return objRef{}, fmt.Errorf("texcoord %q: %w", s, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if ref.vn, err = resolveIndex(parts[2], len(p.normals)); err != nil {
			return objRef{}, fmt.Errorf("normal %q: %w", s, err)
		}
	}
	return ref, nil
}

func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("index %d out of range (have %d)", i, n)
}

func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
