package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/softras/pkg/display"
	"github.com/taigrr/softras/pkg/render"
)

// windowSize is the frame size of the desktop window.
const windowSize = render.DefaultWidth / 2

// terminalKeys are the key names forwarded from terminal key events.
var terminalKeys = []string{
	"w", "a", "s", "d", "q", "e", "r", "m", "space",
	"up", "down", "left", "right", "+", "=", "-", "_",
}

func runTerminal(s *scene, name string) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Any-event mouse tracking with SGR extended coordinates.
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	presenter := display.NewTerminal(term, width, height)
	fc := render.NewFrameContext(presenter.FramebufferSize())
	ctl := newControls(s, *targetFPS)
	var drag terminalDrag
	var fps fpsCounter

	slog.Debug("terminal viewer started", "model", name, "cols", width, "rows", height)

	targetDuration := time.Second / time.Duration(max(1, *targetFPS))
	for {
		frameStart := time.Now()

		var in display.Input
	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-term.Events():
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					width, height = ev.Width, ev.Height
					presenter.Resize(width, height)
					fc.Release()
					fc = render.NewFrameContext(presenter.FramebufferSize())
				case uv.KeyPressEvent:
					if ev.MatchString("escape", "ctrl+c") {
						return nil
					}
					for _, k := range terminalKeys {
						if ev.MatchString(k) {
							in.Keys = append(in.Keys, k)
						}
					}
				case uv.KeyReleaseEvent:
					for _, k := range terminalKeys {
						if ev.MatchString(k) {
							in.Released = append(in.Released, k)
						}
					}
				default:
					drag.handle(ev, &in)
				}
			default:
				break drain
			}
		}

		ctl.apply(in)
		s.draw(fc, ctl.step())
		if err := presenter.Present(fc.Color); err != nil {
			return err
		}
		if rate, ok := fps.tick(); ok {
			slog.Debug("fps", "rate", rate)
		}

		if elapsed := time.Since(frameStart); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// terminalDrag turns terminal mouse events into drag and wheel input.
type terminalDrag struct {
	down         bool
	lastX, lastY int
}

func (d *terminalDrag) handle(ev uv.Event, in *display.Input) {
	switch ev := ev.(type) {
	case uv.MouseClickEvent:
		d.down = true
		d.lastX, d.lastY = ev.X, ev.Y
	case uv.MouseReleaseEvent:
		d.down = false
	case uv.MouseMotionEvent:
		if d.down {
			in.DragX += float64(ev.X - d.lastX)
			in.DragY += float64(ev.Y - d.lastY)
			d.lastX, d.lastY = ev.X, ev.Y
		}
	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			in.Wheel++
		case uv.MouseWheelDown:
			in.Wheel--
		}
	}
}

func runWindow(s *scene, name string) error {
	win := display.NewWindow("softras - "+name, windowSize, windowSize, 1)
	win.TPS = *targetFPS

	fc := render.NewFrameContext(windowSize, windowSize)
	defer fc.Release()
	ctl := newControls(s, *targetFPS)
	var fps fpsCounter

	err := win.Run(func(in display.Input) error {
		ctl.apply(in)
		s.draw(fc, ctl.step())
		if rate, ok := fps.tick(); ok {
			slog.Debug("fps", "rate", rate)
		}
		return win.Present(fc.Color)
	})
	if err != nil && !errors.Is(err, display.ErrClosed) {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}
