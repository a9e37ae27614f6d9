package display

import (
	"fmt"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/softras/pkg/render"
)

// HalfBlock draws a color buffer as terminal cells. Each cell is an upper
// half block with the foreground set to the upper pixel and the background
// to the lower one, so a terminal row covers two pixel rows. The buffer is
// scaled to fit the area.
type HalfBlock struct {
	Buf *render.ColorBuffer
}

// Draw implements uv.Drawable.
func (h HalfBlock) Draw(scr uv.Screen, area uv.Rectangle) {
	cols, rows := area.Dx(), area.Dy()
	if h.Buf == nil || cols <= 0 || rows <= 0 {
		return
	}
	for row := range rows {
		for col := range cols {
			top, bot := h.cellColors(col, row, cols, rows)
			scr.SetCell(area.Min.X+col, area.Min.Y+row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: top,
					Bg: bot,
				},
			})
		}
	}
}

// cellColors returns the upper and lower colors of cell (col, row) in a
// grid of cols by rows cells, counted from the top-left.
func (h HalfBlock) cellColors(col, row, cols, rows int) (top, bot color.RGBA) {
	top = h.sample(col, row*2, cols, rows*2)
	bot = h.sample(col, row*2+1, cols, rows*2)
	return top, bot
}

// sample maps pixel (x, y) of a w by h top-down image onto the buffer.
func (h HalfBlock) sample(x, y, w, hgt int) color.RGBA {
	b := h.Buf
	sx := x * b.Width / w
	sy := b.Height - 1 - y*b.Height/hgt
	return b.GetPixel(sx, sy)
}

// Terminal presents frames on a terminal using HalfBlock cells.
type Terminal struct {
	term       *uv.Terminal
	cols, rows int
}

// NewTerminal creates a presenter for a started terminal of the given size
// in cells.
func NewTerminal(term *uv.Terminal, cols, rows int) *Terminal {
	return &Terminal{term: term, cols: cols, rows: rows}
}

// Resize updates the cell grid after a window size change.
func (t *Terminal) Resize(cols, rows int) {
	t.cols, t.rows = cols, rows
	t.term.Erase()
	t.term.Resize(cols, rows)
}

// FramebufferSize returns the buffer size that maps one pixel to each half
// cell.
func (t *Terminal) FramebufferSize() (width, height int) {
	return t.cols, t.rows * 2
}

// Present draws the buffer and flushes the changes to the terminal.
func (t *Terminal) Present(buf *render.ColorBuffer) error {
	HalfBlock{Buf: buf}.Draw(t.term, uv.Rect(0, 0, t.cols, t.rows))
	if err := t.term.Display(); err != nil {
		return fmt.Errorf("display frame: %w", err)
	}
	return nil
}
