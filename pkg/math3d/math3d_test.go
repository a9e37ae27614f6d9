package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func approxVec3(a, b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestMat3Inverse(t *testing.T) {
	tests := []struct {
		name string
		m    Mat3
	}{
		{"identity", Identity3()},
		{"rotation", RotateY(0.7).Mat3()},
		{"non-uniform scale", Scale(V3(2, 3, 0.5)).Mat3()},
		{"rotation and scale", RotateX(0.4).Mul(Scale(V3(1, 4, 2))).Mat3()},
	}

	probe := V3(0.3, -1.2, 2.5)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv, ok := tc.m.Inverse()
			if !ok {
				t.Fatal("Inverse reported singular matrix")
			}
			got := inv.MulVec3(tc.m.MulVec3(probe))
			if !approxVec3(got, probe, 1e-9) {
				t.Errorf("inv(m)*m*v = %v, want %v", got, probe)
			}
		})
	}

	t.Run("singular", func(t *testing.T) {
		_, ok := Scale(V3(1, 0, 1)).Mat3().Inverse()
		if ok {
			t.Error("expected singular matrix to report !ok")
		}
	})
}

func TestMat3FromRows(t *testing.T) {
	r0, r1, r2 := V3(1, 2, 3), V3(4, 5, 6), V3(7, 8, 9)
	m := Mat3FromRows(r0, r1, r2)

	for i, want := range []Vec3{r0, r1, r2} {
		if got := m.Row(i); got != want {
			t.Errorf("Row(%d) = %v, want %v", i, got, want)
		}
	}

	// Multiplying by a row matrix dots each row with v
	v := V3(1, 0, -1)
	got := m.MulVec3(v)
	want := V3(r0.Dot(v), r1.Dot(v), r2.Dot(v))
	if !approxVec3(got, want, eps) {
		t.Errorf("MulVec3 = %v, want %v", got, want)
	}
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	// A plane tilted 45 degrees, stretched along X. The transformed normal
	// must stay perpendicular to the transformed surface.
	model := Scale(V3(4, 1, 1))
	tangent := V3(1, 1, 0).Normalize()
	normal := V3(-1, 1, 0).Normalize()

	worldTangent := model.Mat3().MulVec3(tangent)
	worldNormal := model.NormalMatrix().MulVec3(normal)

	if d := worldTangent.Dot(worldNormal); math.Abs(d) > 1e-9 {
		t.Errorf("normal not perpendicular after transform, dot = %v", d)
	}
}

func TestPerspectiveDivide(t *testing.T) {
	got := V4(2, 4, 6, 2).PerspectiveDivide()
	if got != V3(1, 2, 3) {
		t.Errorf("PerspectiveDivide = %v, want (1,2,3)", got)
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := V3(3, 2, 5)
	view := LookAt(eye, Zero3(), Up())
	got := view.MulPoint(eye)
	if !approxVec3(got, Zero3(), 1e-9) {
		t.Errorf("view * eye = %v, want origin", got)
	}

	// Target ends up on the -Z axis
	target := view.MulPoint(Zero3())
	if math.Abs(target.X) > 1e-9 || math.Abs(target.Y) > 1e-9 || target.Z >= 0 {
		t.Errorf("view * target = %v, want point on -Z", target)
	}
}

func TestWeighted(t *testing.T) {
	a, b, c := V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)
	got := Weighted(a, b, c, V3(0.2, 0.3, 0.5))
	if !approxVec3(got, V3(0.2, 0.3, 0.5), eps) {
		t.Errorf("Weighted = %v", got)
	}
}
