// Package display shows finished color buffers on a terminal or in a
// desktop window.
package display

import "github.com/taigrr/softras/pkg/render"

// Presenter shows a completed frame. Buffers use the render convention of
// row 0 at the bottom; presenters flip as needed.
type Presenter interface {
	Present(buf *render.ColorBuffer) error
}

// Input is the user input gathered since the previous frame.
type Input struct {
	DragX, DragY float64  // Pointer movement while the primary button is held
	Wheel        float64  // Positive zooms in
	Keys         []string // Keys pressed this frame, lower case
	Released     []string // Keys released this frame, lower case
}

// Pressed reports whether any of the named keys was pressed this frame.
func (in Input) Pressed(names ...string) bool {
	for _, k := range in.Keys {
		for _, n := range names {
			if k == n {
				return true
			}
		}
	}
	return false
}
