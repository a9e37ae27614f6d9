package render

import (
	"math"
	"testing"

	"github.com/taigrr/softras/pkg/math3d"
)

func TestProject(t *testing.T) {
	ts := NewTransformSet(math.Pi/2, 1, 1, 10)
	NewCamera(math3d.V3(0, 0, 5), math3d.Zero3()).Apply(ts)

	tests := []struct {
		name string
		pos  math3d.Vec3
		ok   bool
	}{
		{"in front", math3d.V3(0, 0, 0), true},
		{"at the eye plane", math3d.V3(1, 0, 5), false},
		{"behind the eye", math3d.V3(0, 0, 8), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := ts.Project(tc.pos)
			if ok != tc.ok {
				t.Errorf("Project(%v) ok = %v, want %v", tc.pos, ok, tc.ok)
			}
		})
	}
}

func TestProjectDepthOrdering(t *testing.T) {
	ts := NewTransformSet(math.Pi/3, 1, 0.1, 100)
	NewCamera(math3d.V3(0, 0, 5), math3d.Zero3()).Apply(ts)

	nearP, ok1 := ts.Project(math3d.V3(0, 0, 1))
	farP, ok2 := ts.Project(math3d.V3(0, 0, -1))
	if !ok1 || !ok2 {
		t.Fatal("projection failed")
	}
	if nearP.Z <= farP.Z {
		t.Errorf("nearer point z %v should exceed farther z %v", nearP.Z, farP.Z)
	}
	if !InNDCCube(nearP) || !InNDCCube(farP) {
		t.Errorf("points should be inside the NDC cube: %v %v", nearP, farP)
	}
}

func TestProjectIdentity(t *testing.T) {
	ts := NewTransformSetFromProjection(math3d.Identity())
	got, ok := ts.Project(math3d.V3(0.25, -0.5, 0.75))
	if !ok {
		t.Fatal("identity projection should succeed")
	}
	if got != math3d.V3(0.25, -0.5, -0.75) {
		t.Errorf("Project = %v, want z negated", got)
	}
}

func TestNormalMatrixTracksModel(t *testing.T) {
	ts := NewTransformSetFromProjection(math3d.Identity())
	if ts.NormalMatrix() != math3d.Identity3() {
		t.Fatal("initial normal matrix should be identity")
	}

	ts.SetModel(math3d.Scale(math3d.V3(2, 1, 1)))
	n := ts.NormalMatrix().MulVec3(math3d.V3(1, 1, 0))
	if math.Abs(n.X-0.5) > 1e-12 || math.Abs(n.Y-1) > 1e-12 {
		t.Errorf("normal = %v, want (0.5, 1, 0)", n)
	}

	ts.SetModel(math3d.Translate(math3d.V3(5, 5, 5)))
	if ts.NormalMatrix() != math3d.Identity3() {
		t.Error("translation must not affect the normal matrix")
	}
}

func TestCameraZoom(t *testing.T) {
	cam := NewCamera(math3d.V3(0, 0, 4), math3d.Zero3())

	cam.Zoom(1)
	if math.Abs(cam.Distance()-3) > 1e-12 {
		t.Errorf("distance = %v, want 3", cam.Distance())
	}
	cam.Zoom(100)
	if math.Abs(cam.Distance()-MinCameraDistance) > 1e-12 {
		t.Errorf("distance = %v, want clamp at %v", cam.Distance(), MinCameraDistance)
	}
	cam.Zoom(-2)
	if math.Abs(cam.Eye.Z-(MinCameraDistance+2)) > 1e-12 {
		t.Errorf("eye = %v", cam.Eye)
	}
}
