package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// WriteImage encodes the buffer as a PNG file. With flip set, buffer row 0
// is written as the bottom image row.
func WriteImage(path string, buf *ColorBuffer, flip bool) error {
	return SavePNG(path, buf.ToImage(flip))
}

// SavePNG writes an image to a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Annotate draws lines of text in the top-left corner of img on a dark
// backing box, using the 7x13 basic font.
func Annotate(img draw.Image, lines []string, fg Color) {
	if len(lines) == 0 {
		return
	}
	face := basicfont.Face7x13
	const pad = 4
	lineHeight := face.Metrics().Height.Ceil()

	width := 0
	for _, l := range lines {
		width = max(width, font.MeasureString(face, l).Ceil())
	}
	box := image.Rect(0, 0, width+2*pad, len(lines)*lineHeight+2*pad).Add(img.Bounds().Min)
	draw.Draw(img, box, image.NewUniform(Color{A: 255}), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(box.Min.X+pad, box.Min.Y+pad+face.Metrics().Ascent.Ceil()+i*lineHeight)
		d.DrawString(l)
	}
}

// StatsLines formats frame statistics for Annotate.
func StatsLines(s FrameStats) []string {
	return []string{
		fmt.Sprintf("triangles %d drawn %d", s.Triangles, s.Drawn),
		fmt.Sprintf("skipped %d (clip %d, ndc %d, degenerate %d)",
			s.Skipped(), s.ClipRejected, s.OutsideNDC, s.Degenerate),
		fmt.Sprintf("pixels %d", s.PixelsWritten),
	}
}
