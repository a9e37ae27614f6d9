package render

import (
	"image"
)

// Channels is the number of bytes per pixel in a ColorBuffer.
const Channels = 3

// Fixed render resolution for batch output.
const (
	DefaultWidth  = 1024
	DefaultHeight = 1024
)

// ColorBuffer is a row-major RGB byte buffer. Row 0 is the bottom of the
// image (NDC y = -1); outputs flip vertically when converting.
type ColorBuffer struct {
	Width  int
	Height int
	Pix    []byte // Channels bytes per pixel, index (y*Width+x)*Channels
}

// NewColorBuffer allocates a zeroed (black) buffer.
func NewColorBuffer(width, height int) *ColorBuffer {
	return &ColorBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*Channels),
	}
}

// Stride returns the number of bytes per row.
func (b *ColorBuffer) Stride() int {
	return b.Width * Channels
}

// Clear fills the buffer with a solid color.
func (b *ColorBuffer) Clear(c Color) {
	n := len(b.Pix)
	if n == 0 {
		return
	}
	b.Pix[0], b.Pix[1], b.Pix[2] = c.R, c.G, c.B
	// Copy-doubling
	for i := Channels; i < n; i *= 2 {
		copy(b.Pix[i:], b.Pix[:i])
	}
}

// SetPixel sets the pixel at (x, y). Out-of-bounds writes are ignored.
func (b *ColorBuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	i := (y*b.Width + x) * Channels
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
}

// GetPixel returns the opaque color at (x, y), or transparent black if out
// of bounds.
func (b *ColorBuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return Color{}
	}
	i := (y*b.Width + x) * Channels
	return RGB(b.Pix[i], b.Pix[i+1], b.Pix[i+2])
}

// ToImage converts the buffer to an image.RGBA. With flip set, buffer row 0
// becomes the last image row so the picture appears upright.
func (b *ColorBuffer) ToImage(flip bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := range b.Height {
		srcY := y
		if flip {
			srcY = b.Height - 1 - y
		}
		src := b.Pix[srcY*b.Stride() : (srcY+1)*b.Stride()]
		dst := img.Pix[y*img.Stride : y*img.Stride+b.Width*4]
		for x := range b.Width {
			dst[x*4] = src[x*Channels]
			dst[x*4+1] = src[x*Channels+1]
			dst[x*4+2] = src[x*Channels+2]
			dst[x*4+3] = 255
		}
	}
	return img
}
