package render

import "math"

// Default projection parameters for NewFrameContext.
const (
	DefaultFOV  = math.Pi / 3 // 60 degrees
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// FrameStats counts what happened to triangles during one frame.
type FrameStats struct {
	Triangles     int // Triangles submitted
	Drawn         int // Triangles that reached the fill or wire stage
	ClipRejected  int // A vertex had non-positive or near-zero clip w
	OutsideNDC    int // A vertex was outside the NDC cube
	Degenerate    int // Zero screen-space area
	NoTangent     int // Normal mapping fell back to the interpolated normal
	PixelsWritten int
	MeshesTested  int
	MeshesCulled  int
}

// Skipped returns the number of submitted triangles that were not drawn.
func (s FrameStats) Skipped() int {
	return s.ClipRejected + s.OutsideNDC + s.Degenerate
}

// FrameContext owns every piece of per-frame state: the color buffer, the
// depth buffer, the transforms and the statistics. Nothing else in the
// package holds frame state.
type FrameContext struct {
	Color      *ColorBuffer
	Depth      *DepthBuffer
	Transforms *TransformSet
	Stats      FrameStats
}

// NewFrameContext allocates buffers of the given size and a transform set
// with the default perspective projection for that aspect ratio.
func NewFrameContext(width, height int) *FrameContext {
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	return &FrameContext{
		Color:      NewColorBuffer(width, height),
		Depth:      NewDepthBuffer(width, height),
		Transforms: NewTransformSet(DefaultFOV, aspect, DefaultNear, DefaultFar),
	}
}

// Width returns the buffer width in pixels.
func (fc *FrameContext) Width() int { return fc.Color.Width }

// Height returns the buffer height in pixels.
func (fc *FrameContext) Height() int { return fc.Color.Height }

// Begin starts a frame: clears color to bg, depth to DepthFar and resets
// the statistics.
func (fc *FrameContext) Begin(bg Color) {
	fc.Color.Clear(bg)
	fc.Depth.Clear()
	fc.Stats = FrameStats{}
}

// End logs the frame statistics at debug level and returns them.
func (fc *FrameContext) End() FrameStats {
	s := fc.Stats
	Logger().Debug("frame done",
		"triangles", s.Triangles,
		"drawn", s.Drawn,
		"skipped", s.Skipped(),
		"degenerate", s.Degenerate,
		"clip_rejected", s.ClipRejected,
		"outside_ndc", s.OutsideNDC,
		"no_tangent", s.NoTangent,
		"pixels", s.PixelsWritten,
		"culled", s.MeshesCulled)
	return s
}

// Release drops the buffers. The context must not be used afterwards.
func (fc *FrameContext) Release() {
	fc.Color = nil
	fc.Depth = nil
	fc.Transforms = nil
}
