package render

import (
	"image"

	"github.com/taigrr/softras/pkg/math3d"
)

// ViewportMap converts an NDC position to integer pixel coordinates.
// Values outside [-1, 1] map outside the buffer; callers clip.
func ViewportMap(ndc math3d.Vec3, width, height int) image.Point {
	return image.Point{
		X: int((ndc.X + 1) * float64(width) / 2),
		Y: int((ndc.Y + 1) * float64(height) / 2),
	}
}

// PixelToNDC maps a pixel coordinate along an axis of length dim back to
// NDC. ViewportMap(PixelToNDC(p)) == p for every in-range pixel.
func PixelToNDC(px, dim int) float64 {
	return 2*float64(px)/float64(dim) - 1
}

// InNDC reports whether x and y lie in [-1, 1].
func InNDC(p math3d.Vec3) bool {
	return p.X >= -1 && p.X <= 1 && p.Y >= -1 && p.Y <= 1
}

// InNDCCube reports whether all three components lie in [-1, 1].
func InNDCCube(p math3d.Vec3) bool {
	return InNDC(p) && p.Z >= -1 && p.Z <= 1
}
