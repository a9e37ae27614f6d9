package main

import (
	"time"

	"github.com/taigrr/softras/pkg/display"
	"github.com/taigrr/softras/pkg/math3d"
)

const (
	torqueStrength    = 3.0
	dragSensitivity   = 0.03
	zoomStep          = 0.5
	maxCameraDistance = 20.0
)

// Key names as reported by the terminal and by the window.
var (
	keysPitchUp   = []string{"w", "up", "arrowup"}
	keysPitchDown = []string{"s", "down", "arrowdown"}
	keysYawLeft   = []string{"a", "left", "arrowleft"}
	keysYawRight  = []string{"d", "right", "arrowright"}
	keysRollLeft  = []string{"q"}
	keysRollRight = []string{"e"}
	keysZoomIn    = []string{"+", "=", "equal"}
	keysZoomOut   = []string{"-", "_", "minus"}
)

// controls turns input into rotation, zoom and mode changes and steps the
// animation once per frame.
type controls struct {
	scene    *scene
	rotation *RotationState
	torque   struct{ pitch, yaw, roll float64 }
	last     time.Time
}

func newControls(s *scene, fps int) *controls {
	return &controls{
		scene:    s,
		rotation: NewRotationState(fps),
		last:     time.Now(),
	}
}

// apply handles one frame of input.
func (c *controls) apply(in display.Input) {
	switch {
	case in.Pressed(keysPitchUp...):
		c.torque.pitch = -torqueStrength
	case in.Pressed(keysPitchDown...):
		c.torque.pitch = torqueStrength
	}
	switch {
	case in.Pressed(keysYawLeft...):
		c.torque.yaw = -torqueStrength
	case in.Pressed(keysYawRight...):
		c.torque.yaw = torqueStrength
	}
	switch {
	case in.Pressed(keysRollLeft...):
		c.torque.roll = -torqueStrength
	case in.Pressed(keysRollRight...):
		c.torque.roll = torqueStrength
	}

	released := display.Input{Keys: in.Released}
	if released.Pressed(append(keysPitchUp, keysPitchDown...)...) {
		c.torque.pitch = 0
	}
	if released.Pressed(append(keysYawLeft, keysYawRight...)...) {
		c.torque.yaw = 0
	}
	if released.Pressed(append(keysRollLeft, keysRollRight...)...) {
		c.torque.roll = 0
	}

	if in.Pressed("space") {
		c.rotation.RandomImpulse()
	}
	if in.Pressed("r") {
		c.rotation.Reset()
		c.scene.camera.SetEye(math3d.V3(0, 0, cameraDistance))
	}
	if in.Pressed("m") {
		c.scene.cycleMode()
	}
	if in.Pressed(keysZoomIn...) {
		c.zoom(zoomStep)
	}
	if in.Pressed(keysZoomOut...) {
		c.zoom(-zoomStep)
	}
	if in.Wheel != 0 {
		c.zoom(in.Wheel * zoomStep)
	}
	if in.DragX != 0 || in.DragY != 0 {
		c.rotation.ApplyImpulse(in.DragY*dragSensitivity, in.DragX*dragSensitivity, 0)
	}
}

// zoom moves the camera toward the model, keeping it within
// maxCameraDistance.
func (c *controls) zoom(delta float64) {
	delta = max(delta, c.scene.camera.Distance()-maxCameraDistance)
	c.scene.camera.Zoom(delta)
}

// step advances the spin and returns the model matrix for this frame.
func (c *controls) step() math3d.Mat4 {
	now := time.Now()
	dt := min(now.Sub(c.last).Seconds(), 0.1)
	c.last = now

	// Key release events are unreliable on some terminals.
	c.rotation.ApplyImpulse(c.torque.pitch*dt, c.torque.yaw*dt, c.torque.roll*dt)
	c.torque.pitch *= 0.9
	c.torque.yaw *= 0.9
	c.torque.roll *= 0.9

	c.rotation.Update()
	return c.rotation.Matrix()
}

// fpsCounter measures frames per second over one second windows.
type fpsCounter struct {
	frames int
	start  time.Time
}

// tick counts a frame and reports the rate once per second.
func (f *fpsCounter) tick() (fps float64, ok bool) {
	if f.start.IsZero() {
		f.start = time.Now()
	}
	f.frames++
	elapsed := time.Since(f.start)
	if elapsed < time.Second {
		return 0, false
	}
	fps = float64(f.frames) / elapsed.Seconds()
	f.frames = 0
	f.start = time.Now()
	return fps, true
}
