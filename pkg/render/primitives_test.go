package render

import (
	"image"
	"math"
	"testing"

	"github.com/taigrr/softras/pkg/math3d"
)

func TestViewportRoundTrip(t *testing.T) {
	for _, dim := range []int{1, 7, 128, DefaultWidth} {
		for px := range dim {
			ndc := PixelToNDC(px, dim)
			got := ViewportMap(math3d.V3(ndc, ndc, 0), dim, dim)
			if absInt(got.X-px) > 1 || absInt(got.Y-px) > 1 {
				t.Fatalf("dim %d: pixel %d round-tripped to %v", dim, px, got)
			}
		}
	}
}

func TestViewportMap(t *testing.T) {
	tests := []struct {
		name string
		ndc  math3d.Vec3
		want image.Point
	}{
		{"bottom left", math3d.V3(-1, -1, 0), image.Pt(0, 0)},
		{"center", math3d.V3(0, 0, 0), image.Pt(50, 25)},
		{"top right edge", math3d.V3(1, 1, 0), image.Pt(100, 50)},
		{"quarter", math3d.V3(-0.5, 0.5, 0), image.Pt(25, 37)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ViewportMap(tc.ndc, 100, 50); got != tc.want {
				t.Errorf("ViewportMap(%v) = %v, want %v", tc.ndc, got, tc.want)
			}
		})
	}
}

func TestInNDC(t *testing.T) {
	tests := []struct {
		p          math3d.Vec3
		inNDC, cub bool
	}{
		{math3d.V3(0, 0, 0), true, true},
		{math3d.V3(1, -1, 1), true, true},
		{math3d.V3(0, 0, 1.5), true, false},
		{math3d.V3(1.01, 0, 0), false, false},
		{math3d.V3(0, -2, 0), false, false},
	}
	for _, tc := range tests {
		if got := InNDC(tc.p); got != tc.inNDC {
			t.Errorf("InNDC(%v) = %v, want %v", tc.p, got, tc.inNDC)
		}
		if got := InNDCCube(tc.p); got != tc.cub {
			t.Errorf("InNDCCube(%v) = %v, want %v", tc.p, got, tc.cub)
		}
	}
}

// litPixels returns the set of non-black pixels.
func litPixels(b *ColorBuffer) map[image.Point]bool {
	out := map[image.Point]bool{}
	for y := range b.Height {
		for x := range b.Width {
			if b.GetPixel(x, y) != ColorBlack {
				out[image.Pt(x, y)] = true
			}
		}
	}
	return out
}

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name   string
		p0, p1 image.Point
	}{
		{"horizontal", image.Pt(2, 5), image.Pt(12, 5)},
		{"vertical", image.Pt(4, 1), image.Pt(4, 14)},
		{"diagonal", image.Pt(0, 0), image.Pt(15, 15)},
		{"shallow", image.Pt(1, 2), image.Pt(14, 7)},
		{"steep", image.Pt(3, 0), image.Pt(8, 15)},
		{"reversed", image.Pt(14, 7), image.Pt(1, 2)},
		{"negative slope", image.Pt(0, 15), image.Pt(9, 3)},
		{"single point", image.Pt(6, 6), image.Pt(6, 6)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := NewColorBuffer(16, 16)
			buf.DrawLine(tc.p0, tc.p1, ColorWhite)
			lit := litPixels(buf)

			dx, dy := absInt(tc.p1.X-tc.p0.X), absInt(tc.p1.Y-tc.p0.Y)
			if want := max(dx, dy) + 1; len(lit) != want {
				t.Errorf("lit %d pixels, want %d", len(lit), want)
			}
			if !lit[tc.p0] || !lit[tc.p1] {
				t.Errorf("endpoints not drawn: %v %v", tc.p0, tc.p1)
			}

			// Exactly one pixel per step along the major axis, and each
			// step moves the minor axis by at most one.
			steep := dy > dx
			byMajor := map[int]int{}
			for p := range lit {
				major, minor := p.X, p.Y
				if steep {
					major, minor = p.Y, p.X
				}
				if _, dup := byMajor[major]; dup {
					t.Fatalf("two pixels at major coordinate %d", major)
				}
				byMajor[major] = minor
			}
			for major, minor := range byMajor {
				if next, ok := byMajor[major+1]; ok && absInt(next-minor) > 1 {
					t.Errorf("gap between %d and %d", major, major+1)
				}
			}
		})
	}
}

func TestDrawLineClipsToBuffer(t *testing.T) {
	buf := NewColorBuffer(8, 8)
	buf.DrawLine(image.Pt(-5, 3), image.Pt(20, 3), ColorWhite)

	if got := len(litPixels(buf)); got != 8 {
		t.Errorf("lit %d pixels, want 8", got)
	}
}

func TestDrawLineNDC(t *testing.T) {
	tests := []struct {
		name   string
		a, b   math3d.Vec3
		expect bool
	}{
		{"both inside", math3d.V3(-0.5, -0.5, 0), math3d.V3(0.5, 0.5, 0), true},
		{"one outside", math3d.V3(-0.5, -0.5, 0), math3d.V3(1.5, 0.5, 0), false},
		{"both outside", math3d.V3(-2, 0, 0), math3d.V3(2, 0, 0), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := NewColorBuffer(16, 16)
			buf.DrawLineNDC(tc.a, tc.b, ColorWhite)
			if got := len(litPixels(buf)) > 0; got != tc.expect {
				t.Errorf("drew = %v, want %v", got, tc.expect)
			}
		})
	}
}

func TestBarycentric(t *testing.T) {
	a, b, c := image.Pt(0, 0), image.Pt(10, 0), image.Pt(0, 10)

	tests := []struct {
		name     string
		p        image.Point
		expected math3d.Vec3
	}{
		{"vertex a", a, math3d.V3(1, 0, 0)},
		{"vertex b", b, math3d.V3(0, 1, 0)},
		{"vertex c", c, math3d.V3(0, 0, 1)},
		{"edge midpoint", image.Pt(5, 5), math3d.V3(0, 0.5, 0.5)},
		{"interior", image.Pt(2, 3), math3d.V3(0.5, 0.2, 0.3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bc := Barycentric(tc.p, a, b, c)
			if !approxVec3(bc, tc.expected, 1e-12) {
				t.Errorf("Barycentric(%v) = %v, want %v", tc.p, bc, tc.expected)
			}
			if !Covers(bc) {
				t.Errorf("point %v should be covered", tc.p)
			}
		})
	}
}

func TestBarycentricProperties(t *testing.T) {
	tris := [][3]image.Point{
		{image.Pt(3, 4), image.Pt(40, 9), image.Pt(17, 33)},
		{image.Pt(3, 4), image.Pt(17, 33), image.Pt(40, 9)},
		{image.Pt(0, 0), image.Pt(1, 40), image.Pt(2, 1)},
	}
	for _, tri := range tris {
		a, b, c := tri[0], tri[1], tri[2]
		area := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
		for y := -2; y < 45; y++ {
			for x := -2; x < 45; x++ {
				p := image.Pt(x, y)
				bc := Barycentric(p, a, b, c)
				if s := bc.X + bc.Y + bc.Z; math.Abs(s-1) > 1e-9 {
					t.Fatalf("weights at %v sum to %v", p, s)
				}
				// Edge functions give the exact inside test.
				e0 := (b.X-p.X)*(c.Y-p.Y) - (b.Y-p.Y)*(c.X-p.X)
				e1 := (c.X-p.X)*(a.Y-p.Y) - (c.Y-p.Y)*(a.X-p.X)
				e2 := (a.X-p.X)*(b.Y-p.Y) - (a.Y-p.Y)*(b.X-p.X)
				inside := e0*area >= 0 && e1*area >= 0 && e2*area >= 0
				if Covers(bc) != inside {
					t.Fatalf("Covers(%v) = %v at %v, want %v", bc, Covers(bc), p, inside)
				}
			}
		}
	}
}

func TestBarycentricDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c image.Point
	}{
		{"collinear", image.Pt(0, 0), image.Pt(5, 5), image.Pt(10, 10)},
		{"repeated vertex", image.Pt(3, 3), image.Pt(3, 3), image.Pt(8, 1)},
		{"single point", image.Pt(2, 2), image.Pt(2, 2), image.Pt(2, 2)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bc := Barycentric(image.Pt(4, 4), tc.a, tc.b, tc.c)
			if bc != Degenerate {
				t.Errorf("got %v, want Degenerate", bc)
			}
			if Covers(bc) {
				t.Error("degenerate weights must not cover")
			}
		})
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func BenchmarkBarycentric(b *testing.B) {
	a, c0, c1 := image.Pt(3, 4), image.Pt(900, 90), image.Pt(170, 800)
	p := image.Pt(300, 300)
	for b.Loop() {
		_ = Barycentric(p, a, c0, c1)
	}
}

func BenchmarkDrawLine(b *testing.B) {
	buf := NewColorBuffer(DefaultWidth, DefaultHeight)
	for b.Loop() {
		buf.DrawLine(image.Pt(0, 0), image.Pt(1023, 700), ColorWhite)
	}
}
