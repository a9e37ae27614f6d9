package render

import (
	"math"

	"github.com/taigrr/softras/pkg/math3d"
)

// ClipEpsilon is the smallest clip-space w accepted before the perspective
// divide.
const ClipEpsilon = 1e-9

// TransformSet holds the model, view and projection matrices for a frame.
// The projection is fixed at construction; model and view may change
// between frames. Derived matrices are cached and rebuilt on demand.
type TransformSet struct {
	model      math3d.Mat4
	view       math3d.Mat4
	projection math3d.Mat4

	mvp    math3d.Mat4
	normal math3d.Mat3
	dirty  bool
}

// NewTransformSet creates a transform set with a perspective projection and
// identity model and view.
func NewTransformSet(fovy, aspect, near, far float64) *TransformSet {
	return NewTransformSetFromProjection(math3d.Perspective(fovy, aspect, near, far))
}

// NewTransformSetFromProjection creates a transform set with an arbitrary
// projection matrix. Identity is useful for feeding NDC geometry directly.
func NewTransformSetFromProjection(projection math3d.Mat4) *TransformSet {
	return &TransformSet{
		model:      math3d.Identity(),
		view:       math3d.Identity(),
		projection: projection,
		dirty:      true,
	}
}

// SetModel replaces the model matrix.
func (t *TransformSet) SetModel(m math3d.Mat4) {
	t.model = m
	t.dirty = true
}

// SetView replaces the view matrix.
func (t *TransformSet) SetView(v math3d.Mat4) {
	t.view = v
	t.dirty = true
}

// Model returns the model matrix.
func (t *TransformSet) Model() math3d.Mat4 { return t.model }

// View returns the view matrix.
func (t *TransformSet) View() math3d.Mat4 { return t.view }

// Projection returns the fixed projection matrix.
func (t *TransformSet) Projection() math3d.Mat4 { return t.projection }

// ViewProjection returns projection * view.
func (t *TransformSet) ViewProjection() math3d.Mat4 {
	return t.projection.Mul(t.view)
}

// MVP returns projection * view * model.
func (t *TransformSet) MVP() math3d.Mat4 {
	t.update()
	return t.mvp
}

// NormalMatrix returns the inverse-transpose of the model's linear part.
func (t *TransformSet) NormalMatrix() math3d.Mat3 {
	t.update()
	return t.normal
}

func (t *TransformSet) update() {
	if !t.dirty {
		return
	}
	t.mvp = t.projection.Mul(t.view).Mul(t.model)
	t.normal = t.model.NormalMatrix()
	t.dirty = false
}

// Project transforms an object-space position to device space: clip space,
// perspective divide, then z negated so larger z is nearer. It returns
// false when clip w is non-positive or too small to divide by.
func (t *TransformSet) Project(pos math3d.Vec3) (math3d.Vec3, bool) {
	clip := t.MVP().MulVec4(math3d.Point4(pos))
	if math.Abs(clip.W) < ClipEpsilon || clip.W < 0 {
		return math3d.Vec3{}, false
	}
	ndc := clip.PerspectiveDivide()
	ndc.Z = -ndc.Z
	return ndc, true
}
