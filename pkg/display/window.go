package display

import (
	"errors"
	"image"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/softras/pkg/render"
)

// ErrClosed is returned by Present after the window has been closed.
var ErrClosed = errors.New("window closed")

// Window presents frames in a desktop window. Run blocks on the main
// goroutine; the frame callback renders and calls Present once per tick.
type Window struct {
	TPS int // Ticks per second; zero keeps the ebiten default

	title         string
	width, height int
	scale         int

	mu     sync.Mutex
	frame  *image.RGBA
	closed bool

	update     func(Input) error
	lastX      int
	lastY      int
	dragActive bool
}

// NewWindow creates a window showing frames of width by height pixels,
// enlarged by scale.
func NewWindow(title string, width, height, scale int) *Window {
	return &Window{
		title:  title,
		width:  width,
		height: height,
		scale:  max(1, scale),
	}
}

// Present copies the buffer for the next Draw, flipped upright.
func (w *Window) Present(buf *render.ColorBuffer) error {
	img := buf.ToImage(true)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.frame = img
	return nil
}

// Run opens the window and calls update once per tick with the input
// gathered since the last tick. It returns when update returns an error,
// Escape is pressed or the window is closed. A nil error is returned for a
// normal exit.
func (w *Window) Run(update func(Input) error) error {
	w.update = update
	ebiten.SetWindowSize(w.width*w.scale, w.height*w.scale)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if w.TPS > 0 {
		ebiten.SetTPS(w.TPS)
	}

	err := ebiten.RunGame(w)

	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return err
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if w.update == nil {
		return nil
	}
	return w.update(w.readInput())
}

func (w *Window) readInput() Input {
	var in Input

	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if w.dragActive {
			in.DragX = float64(x-w.lastX) / float64(w.scale)
			in.DragY = float64(y-w.lastY) / float64(w.scale)
		}
		w.dragActive = true
	} else {
		w.dragActive = false
	}
	w.lastX, w.lastY = x, y

	_, in.Wheel = ebiten.Wheel()
	in.Keys = keyNames(inpututil.AppendJustPressedKeys(nil))
	in.Released = keyNames(inpututil.AppendJustReleasedKeys(nil))
	return in
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	frame := w.frame
	w.mu.Unlock()
	if frame == nil || frame.Bounds() != screen.Bounds() {
		return
	}
	screen.WritePixels(frame.Pix)
}

// Layout implements ebiten.Game. The logical screen is the frame size and
// ebiten scales it to the window.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.width, w.height
}

func keyNames(keys []ebiten.Key) []string {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = strings.ToLower(k.String())
	}
	return names
}
