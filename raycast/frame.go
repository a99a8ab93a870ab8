package raycast

// Frame holds one cast: a column per viewport pixel column and the depth buffer
// used to cull sprites.
type Frame struct {
	View    Viewport
	Camera  Camera
	Columns []Column
	Depth   []float64
}

func newFrame(view Viewport, cam Camera) *Frame {
	f := &Frame{}
	f.reset(view, cam)
	return f
}

func (f *Frame) reset(view Viewport, cam Camera) {
	f.View = view
	f.Camera = cam
	n := max(view.Width, 0)
	if cap(f.Columns) < n {
		f.Columns = make([]Column, n)
		f.Depth = make([]float64, n)
	}
	f.Columns = f.Columns[:n]
	f.Depth = f.Depth[:n]
}

// Span is a vertical pixel range on screen. Top < Bottom.
type Span struct {
	Top    float64
	Bottom float64
}

// Height returns the span length in pixels.
func (s Span) Height() float64 { return s.Bottom - s.Top }

// Horizon is the screen row of the eye line.
func (f *Frame) Horizon() float64 {
	return float64(f.View.Height)/2 + f.Camera.Pitch
}

// Slice returns the on-screen extent of the wall in column col.
func (f *Frame) Slice(col int) Span {
	if col < 0 || col >= len(f.Columns) {
		return Span{}
	}
	return f.span(f.Columns[col].Hit.Perp)
}

// DoorSlice returns the on-screen extent of the door slab in column col.
func (f *Frame) DoorSlice(col int) (Span, bool) {
	if col < 0 || col >= len(f.Columns) || !f.Columns[col].HasDoor {
		return Span{}, false
	}
	d := f.Columns[col].Door
	return f.span(d.Perp), d.Visible
}

func (f *Frame) span(perp float64) Span {
	if perp < Epsilon {
		perp = Epsilon
	}
	h := f.View.ProjectionDistance() / perp * f.View.wallHeight()
	mid := f.Horizon()
	return Span{Top: mid - h/2, Bottom: mid + h/2}
}

// Occluded reports whether something at perpendicular distance perp in column
// col sits behind the wall. Columns outside the frame count as occluded.
func (f *Frame) Occluded(col int, perp float64) bool {
	if col < 0 || col >= len(f.Depth) {
		return true
	}
	return perp >= f.Depth[col]
}
