package main

import (
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/taigrr/softras/pkg/display"
	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/models"
	"github.com/taigrr/softras/pkg/render"
)

func testMesh(t *testing.T) *models.Mesh {
	t.Helper()
	mesh, err := models.FromArrays("tri", []float64{
		-1, -1, 0,
		1, -1, 0,
		0, 1, 0,
	}, nil, []float64{0, 0, 1, 0, 0.5, 1})
	if err != nil {
		t.Fatal(err)
	}
	return mesh
}

func testScene(t *testing.T) *scene {
	t.Helper()
	s, err := newScene(render.DefaultConfig(), testMesh(t))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseVec3(t *testing.T) {
	tests := []struct {
		in      string
		want    math3d.Vec3
		wantErr bool
	}{
		{"0,0,1", math3d.V3(0, 0, 1), false},
		{" 1.5, -2 , 3", math3d.V3(1.5, -2, 3), false},
		{"1,2", math3d.Vec3{}, true},
		{"a,b,c", math3d.Vec3{}, true},
		{"0,0,0", math3d.Vec3{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseVec3(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveDisplay(t *testing.T) {
	for _, mode := range []string{"none", "term", "window"} {
		if got := resolveDisplay(mode); got != mode {
			t.Errorf("resolveDisplay(%q) = %q", mode, got)
		}
	}
	if got := resolveDisplay("WINDOW"); got != "window" {
		t.Errorf("resolveDisplay is case sensitive: %q", got)
	}
	if got := resolveDisplay("auto"); got != "term" && got != "none" {
		t.Errorf("resolveDisplay(auto) = %q", got)
	}
}

func TestNewSceneFallbackTextures(t *testing.T) {
	s := testScene(t)
	if s.rast.Diffuse == nil || s.rast.NormalMap == nil {
		t.Fatal("fallback textures not installed")
	}
	if got := s.rast.NormalMap.Sample(0.5, 0.5); got != render.RGB(128, 128, 255) {
		t.Errorf("flat normal map texel = %v", got)
	}
}

func TestLoadOrConvert(t *testing.T) {
	tex, err := loadOrConvert("", nil)
	if err != nil || tex != nil {
		t.Errorf("empty inputs = %v, %v; want nil, nil", tex, err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	tex, err = loadOrConvert("", img)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width != 2 || tex.Height != 2 {
		t.Errorf("embedded texture size = %dx%d", tex.Width, tex.Height)
	}

	if _, err := loadOrConvert(filepath.Join(t.TempDir(), "missing.png"), img); err == nil {
		t.Error("missing file should fail even with an embedded image")
	}
}

func TestSceneDraw(t *testing.T) {
	s := testScene(t)
	fc := render.NewFrameContext(64, 64)

	stats := s.draw(fc, math3d.Identity())
	if stats.Triangles != 1 || stats.Drawn != 1 {
		t.Fatalf("stats = %+v, want one drawn triangle", stats)
	}
	if stats.PixelsWritten == 0 {
		t.Error("no pixels written")
	}
	if got := fc.Color.GetPixel(0, 0); got != s.cfg.Background {
		t.Errorf("corner = %v, want background", got)
	}
}

func TestCycleMode(t *testing.T) {
	s := testScene(t)
	seen := map[string]bool{}
	for range modeCycle {
		s.cycleMode()
		seen[s.mode] = true
	}
	if len(seen) != len(modeCycle) {
		t.Errorf("visited %d modes, want %d", len(seen), len(modeCycle))
	}
	if s.mode != render.ModeTextured {
		t.Errorf("mode after full cycle = %q", s.mode)
	}

	s.mode = render.ModeFlat
	s.cycleMode()
	if !s.rast.Caps.WireframeOnly {
		t.Error("flat should be followed by wire")
	}
}

func TestControlsZoomClamp(t *testing.T) {
	s := testScene(t)
	ctl := newControls(s, 60)

	for range 100 {
		ctl.apply(display.Input{Keys: []string{"minus"}})
	}
	if d := s.camera.Distance(); math.Abs(d-maxCameraDistance) > 1e-9 {
		t.Errorf("distance = %v, want %v", d, maxCameraDistance)
	}

	for range 100 {
		ctl.apply(display.Input{Wheel: 1})
	}
	if d := s.camera.Distance(); math.Abs(d-render.MinCameraDistance) > 1e-9 {
		t.Errorf("distance = %v, want %v", d, render.MinCameraDistance)
	}

	ctl.apply(display.Input{Keys: []string{"r"}})
	if d := s.camera.Distance(); d != cameraDistance {
		t.Errorf("distance after reset = %v", d)
	}
}

func TestControlsTorque(t *testing.T) {
	ctl := newControls(testScene(t), 60)

	ctl.apply(display.Input{Keys: []string{"w"}})
	if ctl.torque.pitch != -torqueStrength {
		t.Errorf("pitch torque = %v", ctl.torque.pitch)
	}
	ctl.apply(display.Input{Released: []string{"w"}})
	if ctl.torque.pitch != 0 {
		t.Errorf("pitch torque after release = %v", ctl.torque.pitch)
	}

	ctl.apply(display.Input{DragX: 10})
	if ctl.rotation.Yaw.Velocity <= 0 {
		t.Errorf("yaw velocity = %v, want positive", ctl.rotation.Yaw.Velocity)
	}
}

func TestRotationDecays(t *testing.T) {
	r := NewRotationState(60)
	r.ApplyImpulse(0, 1, 0)
	for range 600 {
		r.Update()
	}
	if math.Abs(r.Yaw.Velocity) > 1e-3 {
		t.Errorf("yaw velocity = %v, want near zero", r.Yaw.Velocity)
	}
	if r.Yaw.Position <= 0 {
		t.Errorf("yaw position = %v, want positive", r.Yaw.Position)
	}

	r.Reset()
	if r.Yaw.Position != 0 || r.Matrix() != math3d.Identity() {
		t.Error("reset should restore identity orientation")
	}
}
