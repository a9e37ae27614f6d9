package render

// DepthFar is the cleared depth value. Device z is negated after the
// perspective divide, so larger values are nearer and -1 is the far plane.
const DepthFar = -1.0

// DepthBuffer stores one depth value per pixel, row-major.
type DepthBuffer struct {
	Width  int
	Height int
	Z      []float64
}

// NewDepthBuffer allocates a buffer cleared to DepthFar.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		Width:  width,
		Height: height,
		Z:      make([]float64, width*height),
	}
	d.Clear()
	return d
}

// Clear resets every pixel to DepthFar (call before each frame).
func (d *DepthBuffer) Clear() {
	n := len(d.Z)
	if n == 0 {
		return
	}
	// Use copy-doubling for faster clearing
	d.Z[0] = DepthFar
	for i := 1; i < n; i *= 2 {
		copy(d.Z[i:], d.Z[:i])
	}
}

// At returns the depth at (x, y), or DepthFar when out of bounds.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return DepthFar
	}
	return d.Z[y*d.Width+x]
}

// Closer reports whether z is strictly nearer than the stored depth.
func (d *DepthBuffer) Closer(x, y int, z float64) bool {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return false
	}
	return z > d.Z[y*d.Width+x]
}

// Set stores z at (x, y).
func (d *DepthBuffer) Set(x, y int, z float64) {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return
	}
	d.Z[y*d.Width+x] = z
}
