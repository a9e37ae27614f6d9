// Package render implements a software triangle rasterizer: viewport
// mapping, line drawing, barycentric fill with a depth buffer, texture and
// normal-map sampling, and image output.
package render

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/taigrr/softras/pkg/math3d"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapClamp  WrapMode = iota // Clamp to edge
	WrapRepeat                 // Tile the texture
)

// TextureError describes a texture that could not be loaded.
type TextureError struct {
	Path string
	Err  error
}

func (e *TextureError) Error() string {
	return fmt.Sprintf("texture %s: %v", e.Path, e.Err)
}

func (e *TextureError) Unwrap() error { return e.Err }

// ErrBadTexture is returned for textures with invalid dimensions or
// channel counts.
var ErrBadTexture = errors.New("invalid texture")

// Texture holds raw decoded pixels for sampling. Rows are stored top to
// bottom as in the source image; Sample flips v. A texture is read-only
// while a frame is being drawn.
type Texture struct {
	Width    int
	Height   int
	Channels int    // 3 (RGB) or 4 (RGBA)
	Pix      []byte // Row-major, Channels bytes per texel
	Wrap     WrapMode
}

// NewTexture creates a black texture with the given dimensions.
func NewTexture(width, height, channels int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new texture %dx%d: %w", width, height, ErrBadTexture)
	}
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("new texture with %d channels: %w", channels, ErrBadTexture)
	}
	return &Texture{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]byte, width*height*channels),
	}, nil
}

func newRGBTexture(width, height int) *Texture {
	return &Texture{
		Width:    width,
		Height:   height,
		Channels: 3,
		Pix:      make([]byte, width*height*3),
	}
}

// LoadTexture decodes an image file into an RGB texture. PNG, JPEG, GIF,
// BMP, TIFF and WebP are supported.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &TextureError{Path: path, Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, &TextureError{Path: path, Err: fmt.Errorf("decode image: %w", err)}
	}
	tex := TextureFromImage(img)
	Logger().Debug("texture loaded", "path", path, "format", format,
		"width", tex.Width, "height", tex.Height)
	return tex, nil
}

// TextureFromImage creates an RGB texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := newRGBTexture(width, height)

	for y := range height {
		for x := range width {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.SetPixel(x, y, RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
		}
	}

	return tex
}

// NewSolidTexture creates a 1x1 texture of a single color.
func NewSolidTexture(c Color) *Texture {
	tex := newRGBTexture(1, 1)
	tex.SetPixel(0, 0, c)
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := newRGBTexture(width, height)
	for y := range height {
		for x := range width {
			cx := x / checkSize
			cy := y / checkSize
			if (cx+cy)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewFlatNormalMap creates a 1x1 normal map pointing straight out of the
// surface.
func NewFlatNormalMap() *Texture {
	return NewSolidTexture(RGB(128, 128, 255))
}

// SetPixel sets the texel at (x, y), where y = 0 is the top row.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	i := (y*t.Width + x) * t.Channels
	t.Pix[i] = c.R
	t.Pix[i+1] = c.G
	t.Pix[i+2] = c.B
	if t.Channels == 4 {
		t.Pix[i+3] = c.A
	}
}

// TexelCoord resolves UV coordinates to a texel using nearest-neighbor
// lookup: x = floor(u*W), y = floor(|v-1|*H). The result is always within
// the texture.
func (t *Texture) TexelCoord(u, v float64) (x, y int) {
	u = t.wrapCoord(u)
	v = t.wrapCoord(v)

	x = int(math.Floor(u * float64(t.Width)))
	y = int(math.Floor(math.Abs(v-1) * float64(t.Height)))

	return clampInt(x, 0, t.Width-1), clampInt(y, 0, t.Height-1)
}

// Sample returns the color at UV coordinates.
func (t *Texture) Sample(u, v float64) Color {
	x, y := t.TexelCoord(u, v)
	return t.texel(x, y)
}

// SampleNormalized returns the color at UV coordinates with components
// scaled to [0, 1].
func (t *Texture) SampleNormalized(u, v float64) math3d.Vec3 {
	c := t.Sample(u, v)
	return math3d.Vec3{X: float64(c.R) / 255, Y: float64(c.G) / 255, Z: float64(c.B) / 255}
}

// texel reads one texel. Indices are expected in range; a miss panics in
// rasterdebug builds and reads black otherwise.
func (t *Texture) texel(x, y int) Color {
	i := (y*t.Width + x) * t.Channels
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height || i+2 >= len(t.Pix) {
		if boundsChecks {
			panic(fmt.Sprintf("render: texel (%d,%d) outside %dx%d texture", x, y, t.Width, t.Height))
		}
		return ColorBlack
	}
	return RGB(t.Pix[i], t.Pix[i+1], t.Pix[i+2])
}

// wrapCoord applies the wrap mode to a coordinate.
func (t *Texture) wrapCoord(coord float64) float64 {
	switch t.Wrap {
	case WrapRepeat:
		coord = coord - math.Floor(coord) // fmod to [0,1)
	default:
		coord = math.Max(0, math.Min(1, coord))
	}
	return coord
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
