// softras - software triangle rasterizer
// Renders OBJ and GLB meshes to a PNG, a terminal or a window.
//
// Interactive controls (terminal and window):
//
//	Mouse drag  - Rotate model
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation
//	M           - Cycle render mode
//	+/-         - Adjust zoom
//	Esc         - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/models"
	"github.com/taigrr/softras/pkg/render"
)

var (
	outPath       = flag.String("o", "output.png", "Output PNG path (batch mode)")
	texturePath   = flag.String("texture", "", "Path to diffuse texture image")
	normalMapPath = flag.String("normalmap", "", "Path to tangent-space normal map")
	renderMode    = flag.String("mode", render.ModeTextured, "Render mode: wire, flat, depth, textured, normal")
	displayMode   = flag.String("display", "none", "Display: none (write PNG), auto, term, window")
	bgColor       = flag.String("bg", "30,30,40", "Background color (R,G,B)")
	lightDir      = flag.String("light", "0,0,1", "Direction toward the light (X,Y,Z)")
	targetFPS     = flag.Int("fps", 60, "Target FPS (interactive)")
	showStats     = flag.Bool("stats", false, "Draw frame statistics onto the output image")
	verbose       = flag.Bool("v", false, "Verbose logging")
)

// cameraDistance places the eye so a mesh normalized to size 2 fills most
// of the default field of view.
const cameraDistance = 3.0

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "softras - software triangle rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: softras [options] <model.obj|model.glb>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls (interactive):\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Roll left/right\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  M           - Cycle render mode\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	render.SetLogger(logger)
	models.SetLogger(logger)
}

func run(modelPath string) error {
	setupLogging()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	mesh, err := models.LoadMesh(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	mesh.Normalize(2)

	scene, err := newScene(cfg, mesh)
	if err != nil {
		return err
	}

	switch target := resolveDisplay(*displayMode); target {
	case "none":
		return renderToFile(scene, *outPath)
	case "term":
		return runTerminal(scene, filepath.Base(modelPath))
	case "window":
		return runWindow(scene, filepath.Base(modelPath))
	default:
		return fmt.Errorf("unknown display %q (use none, auto, term or window)", target)
	}
}

// resolveDisplay turns "auto" into "term" when stdout is a terminal and
// "none" otherwise.
func resolveDisplay(mode string) string {
	mode = strings.ToLower(mode)
	if mode != "auto" {
		return mode
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "term"
	}
	return "none"
}

func buildConfig() (render.Config, error) {
	cfg := render.DefaultConfig()

	caps, err := render.ParseMode(*renderMode)
	if err != nil {
		return cfg, err
	}
	cfg.Caps = caps

	if cfg.Background, err = render.ParseRGB(*bgColor); err != nil {
		return cfg, fmt.Errorf("parse -bg: %w", err)
	}
	if cfg.LightDir, err = parseVec3(*lightDir); err != nil {
		return cfg, fmt.Errorf("parse -light: %w", err)
	}
	return cfg, nil
}

// parseVec3 parses "X,Y,Z" into a vector.
func parseVec3(s string) (math3d.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("%q: want X,Y,Z", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("%q: %w", s, err)
		}
		v[i] = f
	}
	if v == [3]float64{} {
		return math3d.Vec3{}, errors.New("light direction must be non-zero")
	}
	return math3d.V3(v[0], v[1], v[2]), nil
}

// renderToFile draws a single frame at the default resolution and writes
// it upright to path.
func renderToFile(s *scene, path string) error {
	fc := render.NewFrameContext(render.DefaultWidth, render.DefaultHeight)
	defer fc.Release()

	stats := s.draw(fc, math3d.Identity())

	if *showStats {
		img := fc.Color.ToImage(true)
		render.Annotate(img, render.StatsLines(stats), render.ColorWhite)
		if err := render.SavePNG(path, img); err != nil {
			return fmt.Errorf("write image: %w", err)
		}
	} else if err := render.WriteImage(path, fc.Color, true); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	slog.Info("image written", "path", path,
		"drawn", stats.Drawn, "skipped", stats.Skipped(), "pixels", stats.PixelsWritten)
	return nil
}
