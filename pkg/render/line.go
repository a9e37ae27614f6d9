package render

import (
	"image"

	"github.com/taigrr/softras/pkg/math3d"
)

// DrawLine draws an 8-connected line using Bresenham's algorithm. Each pixel
// on the path is written once; pixels outside the buffer are dropped.
func (b *ColorBuffer) DrawLine(p0, p1 image.Point, c Color) {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y

	steep := false
	if abs(x0-x1) < abs(y0-y1) {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
		steep = true
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := y1 - y0
	derror2 := abs(dy) * 2
	error2 := 0
	ystep := 1
	if y1 < y0 {
		ystep = -1
	}

	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			b.SetPixel(y, x, c)
		} else {
			b.SetPixel(x, y, c)
		}
		error2 += derror2
		if error2 > dx {
			y += ystep
			error2 -= dx * 2
		}
	}
}

// DrawLineNDC draws a line between two NDC positions. Nothing is drawn
// unless both endpoints are inside NDC.
func (b *ColorBuffer) DrawLineNDC(p0, p1 math3d.Vec3, c Color) {
	if !InNDC(p0) || !InNDC(p1) {
		return
	}
	b.DrawLine(ViewportMap(p0, b.Width, b.Height), ViewportMap(p1, b.Width, b.Height), c)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
