package main

import (
	"math/rand/v2"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/softras/pkg/math3d"
)

// RotationAxis tracks angle and angular velocity for one axis. The velocity
// decays toward zero through a critically damped spring.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // Spring state for animating Velocity
}

// NewRotationAxis creates an axis stepped fps times per second.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances the angle by the velocity and decays the velocity.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState is the model orientation as pitch, yaw and roll.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

func NewRotationState(fps int) *RotationState {
	r := &RotationState{fps: fps}
	r.Reset()
	return r
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

// RandomImpulse spins the model in a random direction.
func (r *RotationState) RandomImpulse() {
	r.ApplyImpulse(
		(rand.Float64()-0.5)*1.5,
		(rand.Float64()-0.5)*1.5,
		(rand.Float64()-0.5)*1.5,
	)
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

// Matrix returns the model rotation.
func (r *RotationState) Matrix() math3d.Mat4 {
	return math3d.RotateX(r.Pitch.Position).
		Mul(math3d.RotateY(r.Yaw.Position)).
		Mul(math3d.RotateZ(r.Roll.Position))
}
