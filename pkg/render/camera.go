package render

import (
	"math"

	"github.com/taigrr/softras/pkg/math3d"
)

// MinCameraDistance keeps the eye from reaching the target.
const MinCameraDistance = 0.5

// Camera is an eye/target camera producing the view matrix. The projection
// lives in the TransformSet and never changes after construction.
type Camera struct {
	Eye    math3d.Vec3
	Target math3d.Vec3
	Up     math3d.Vec3

	viewMatrix math3d.Mat4
	viewDirty  bool
}

// NewCamera creates a camera at eye looking at target with +Y up.
func NewCamera(eye, target math3d.Vec3) *Camera {
	return &Camera{
		Eye:       eye,
		Target:    target,
		Up:        math3d.Up(),
		viewDirty: true,
	}
}

// SetEye moves the camera.
func (c *Camera) SetEye(eye math3d.Vec3) {
	c.Eye = eye
	c.viewDirty = true
}

// SetTarget changes the look-at point.
func (c *Camera) SetTarget(target math3d.Vec3) {
	c.Target = target
	c.viewDirty = true
}

// Distance returns the eye-target distance.
func (c *Camera) Distance() float64 {
	return c.Eye.Sub(c.Target).Len()
}

// Forward returns the unit direction from eye to target.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Eye).Normalize()
}

// Zoom moves the eye toward the target by delta (negative moves away).
// The eye never gets closer than MinCameraDistance.
func (c *Camera) Zoom(delta float64) {
	dist := math.Max(MinCameraDistance, c.Distance()-delta)
	c.Eye = c.Target.Sub(c.Forward().Scale(dist))
	c.viewDirty = true
}

// ViewMatrix returns the cached view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Eye, c.Target, c.Up)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// Apply installs the camera's view matrix into a transform set.
func (c *Camera) Apply(t *TransformSet) {
	t.SetView(c.ViewMatrix())
}
