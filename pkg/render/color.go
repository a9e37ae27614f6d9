package render

import (
	"fmt"
	"image/color"
	"math"
)

// Color is an alias for color.RGBA. Alpha is carried for interop with the
// image package but the color buffer stores RGB only.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
	ColorWire  = color.RGBA{0, 255, 128, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) Color {
	return color.RGBA{r, g, b, 255}
}

// ParseRGB parses an "R,G,B" triple such as "30,30,40".
func ParseRGB(s string) (Color, error) {
	var r, g, b int
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	for _, v := range [3]int{r, g, b} {
		if v < 0 || v > 255 {
			return Color{}, fmt.Errorf("parse color %q: component %d out of range", s, v)
		}
	}
	return RGB(uint8(r), uint8(g), uint8(b)), nil
}

// Shade scales a color by a Lambertian intensity. Negative intensity
// yields black and the result saturates at 255.
func Shade(c Color, intensity float64) Color {
	if intensity <= 0 {
		return Color{A: c.A}
	}
	return Color{
		R: uint8(math.Min(255, float64(c.R)*intensity)),
		G: uint8(math.Min(255, float64(c.G)*intensity)),
		B: uint8(math.Min(255, float64(c.B)*intensity)),
		A: c.A,
	}
}

// paletteColor returns a deterministic pseudo-random color for index i,
// used to tell untextured triangles apart.
func paletteColor(i int) Color {
	h := uint32(i)*2654435761 + 0x9e3779b9
	h ^= h >> 15
	h *= 0x85ebca6b
	h ^= h >> 13
	return RGB(uint8(h), uint8(h>>8), uint8(h>>16))
}
