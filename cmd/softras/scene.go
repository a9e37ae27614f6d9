package main

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/models"
	"github.com/taigrr/softras/pkg/render"
)

// modeCycle is the order the M key steps through.
var modeCycle = []string{
	render.ModeTextured,
	render.ModeNormal,
	render.ModeDepth,
	render.ModeFlat,
	render.ModeWire,
}

// scene is everything needed to draw the loaded model.
type scene struct {
	cfg    render.Config
	rast   *render.Rasterizer
	mesh   *models.Mesh
	camera *render.Camera
	mode   string
}

func newScene(cfg render.Config, mesh *models.Mesh) (*scene, error) {
	rast := render.NewRasterizer(cfg)
	base, normal := mesh.Maps()

	diffuse, err := loadOrConvert(*texturePath, base)
	if err != nil {
		return nil, fmt.Errorf("load texture: %w", err)
	}
	if diffuse == nil {
		diffuse = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
		if cfg.Caps.Textured {
			slog.Info("no texture given, using checker pattern")
		}
	}
	rast.Diffuse = diffuse

	normalMap, err := loadOrConvert(*normalMapPath, normal)
	if err != nil {
		return nil, fmt.Errorf("load normal map: %w", err)
	}
	if normalMap == nil {
		normalMap = render.NewFlatNormalMap()
		if cfg.Caps.NormalMapped {
			slog.Warn("no normal map given, using a flat one")
		}
	}
	rast.NormalMap = normalMap

	return &scene{
		cfg:    cfg,
		rast:   rast,
		mesh:   mesh,
		camera: render.NewCamera(math3d.V3(0, 0, cameraDistance), math3d.Zero3()),
		mode:   *renderMode,
	}, nil
}

// loadOrConvert loads path when set, otherwise converts the embedded image.
// Both empty yields a nil texture.
func loadOrConvert(path string, embedded image.Image) (*render.Texture, error) {
	if path != "" {
		return render.LoadTexture(path)
	}
	if embedded == nil {
		return nil, nil
	}
	b := embedded.Bounds()
	slog.Info("using embedded texture", "width", b.Dx(), "height", b.Dy())
	return render.TextureFromImage(embedded), nil
}

// draw renders one frame of the mesh under the given model matrix.
func (s *scene) draw(fc *render.FrameContext, model math3d.Mat4) render.FrameStats {
	fc.Begin(s.cfg.Background)
	s.camera.Apply(fc.Transforms)
	fc.Transforms.SetModel(model)
	s.rast.DrawMesh(fc, s.mesh)
	return fc.End()
}

// cycleMode switches to the next render mode.
func (s *scene) cycleMode() {
	next := modeCycle[0]
	for i, m := range modeCycle {
		if m == s.mode {
			next = modeCycle[(i+1)%len(modeCycle)]
			break
		}
	}
	caps, err := render.ParseMode(next)
	if err != nil {
		return
	}
	s.mode = next
	s.rast.Caps = caps
	slog.Debug("render mode", "mode", next)
}
