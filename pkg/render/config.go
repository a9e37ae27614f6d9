package render

import (
	"fmt"
	"strings"

	"github.com/taigrr/softras/pkg/math3d"
)

// Capabilities select the rasterizer path.
type Capabilities struct {
	WireframeOnly bool // Outline triangles, no fill
	DepthTest     bool // Keep the nearest fragment per pixel
	Textured      bool // Sample the diffuse texture
	NormalMapped  bool // Perturb normals with the normal map
}

// Render modes accepted by ParseMode.
const (
	ModeWire     = "wire"
	ModeFlat     = "flat"
	ModeDepth    = "depth"
	ModeTextured = "textured"
	ModeNormal   = "normal"
)

// ParseMode maps a mode name to capabilities. The modes build on each
// other: flat fills with per-triangle colors and no depth test, depth adds
// the depth test, textured adds the diffuse texture and normal adds the
// normal map.
func ParseMode(mode string) (Capabilities, error) {
	switch strings.ToLower(mode) {
	case ModeWire:
		return Capabilities{WireframeOnly: true}, nil
	case ModeFlat:
		return Capabilities{}, nil
	case ModeDepth:
		return Capabilities{DepthTest: true}, nil
	case ModeTextured:
		return Capabilities{DepthTest: true, Textured: true}, nil
	case ModeNormal:
		return Capabilities{DepthTest: true, Textured: true, NormalMapped: true}, nil
	}
	return Capabilities{}, fmt.Errorf("unknown render mode %q", mode)
}

// Config collects rasterizer settings.
type Config struct {
	Width      int
	Height     int
	Caps       Capabilities
	Background Color
	LightDir   math3d.Vec3 // Direction toward the light, world space
	WireColor  Color
}

// DefaultConfig returns the settings used for batch output.
func DefaultConfig() Config {
	return Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Caps:       Capabilities{DepthTest: true, Textured: true},
		Background: RGB(30, 30, 40),
		LightDir:   math3d.V3(0, 0, 1),
		WireColor:  ColorWire,
	}
}
