package models

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/softras/pkg/math3d"
)

const cubeFaceOBJ = `# one quad with uvs and normals
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl front
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJQuad(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(cubeFaceOBJ), "quad")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if mesh.TriangleCount() != 2 {
		t.Fatalf("triangles = %d, want 2 (fan)", mesh.TriangleCount())
	}
	if mesh.VertexCount() != 6 {
		t.Errorf("vertices = %d, want 6 (de-indexed)", mesh.VertexCount())
	}

	pos, n, uv := mesh.GetVertex(mesh.GetFace(1)[2])
	if pos != math3d.V3(-1, 1, 0) || uv != math3d.V2(0, 1) || n != math3d.V3(0, 0, 1) {
		t.Errorf("last vertex = %v %v %v", pos, n, uv)
	}

	if mesh.MaterialCount() != 1 || mesh.GetFaceMaterial(0) != 0 {
		t.Errorf("material not assigned: count %d, face %d", mesh.MaterialCount(), mesh.GetFaceMaterial(0))
	}
	if mesh.BoundsMin != math3d.V3(-1, -1, 0) || mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("bounds = %v %v", mesh.BoundsMin, mesh.BoundsMax)
	}
}

func TestParseOBJComputesMissingNormals(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
f 1 3 2
`
	mesh, err := ParseOBJ(strings.NewReader(src), "tri")
	if err != nil {
		t.Fatal(err)
	}
	_, n0, _ := mesh.GetVertex(0)
	_, n1, _ := mesh.GetVertex(3)
	if n0 != math3d.V3(0, 0, 1) {
		t.Errorf("ccw normal = %v, want +Z", n0)
	}
	if n1 != math3d.V3(0, 0, -1) {
		t.Errorf("cw normal = %v, want -Z", n1)
	}
}

func TestParseOBJReferenceForms(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0.25 0.75
vn 0 0 1
f 1//1 2//1 3//1
f 1/1 2/1 3/1
f -3 -2 -1
`
	mesh, err := ParseOBJ(strings.NewReader(src), "forms")
	if err != nil {
		t.Fatal(err)
	}
	if mesh.TriangleCount() != 3 {
		t.Fatalf("triangles = %d, want 3", mesh.TriangleCount())
	}
	_, _, uv := mesh.GetVertex(3)
	if uv != math3d.V2(0.25, 0.75) {
		t.Errorf("uv = %v", uv)
	}
	p, _, _ := mesh.GetVertex(8)
	if p != math3d.V3(0, 1, 0) {
		t.Errorf("negative index resolved to %v", p)
	}
	if mesh.GetFaceMaterial(0) != -1 {
		t.Errorf("material = %d, want -1", mesh.GetFaceMaterial(0))
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"index out of range", "v 0 0 0\nf 1 2 3\n", "line 2"},
		{"bad float", "v 0 x 0\n", "line 1"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", "at least 3"},
		{"bad reference", "v 0 0 0\nf 1/1/1/1 1 1\n", "bad vertex reference"},
		{"zero index", "v 0 0 0\nf 0 1 1\n", "out of range"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tc.src), "bad")
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestParseOBJEmpty(t *testing.T) {
	_, err := ParseOBJ(strings.NewReader("# nothing\nv 0 0 0\n"), "empty")
	if !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("err = %v, want ErrEmptyMesh", err)
	}
}

func TestLoadOBJ(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.obj")
	if err := os.WriteFile(path, []byte(cubeFaceOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if mesh.Name != "quad.obj" {
		t.Errorf("name = %q", mesh.Name)
	}

	_, err = LoadOBJ(filepath.Join(dir, "missing.obj"))
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || loadErr.Op != "open" {
		t.Fatalf("err = %v, want open LoadError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestParseOBJNormalsAreUnit(t *testing.T) {
	src := "v 0 0 0\nv 3 0 0\nv 0 0 -5\nf 1 2 3\n"
	mesh, err := ParseOBJ(strings.NewReader(src), "tri")
	if err != nil {
		t.Fatal(err)
	}
	for i := range mesh.VertexCount() {
		_, n, _ := mesh.GetVertex(i)
		if math.Abs(n.Len()-1) > 1e-12 {
			t.Errorf("vertex %d normal length %v", i, n.Len())
		}
	}
}
