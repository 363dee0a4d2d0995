package board

// DragState is the lifecycle of one marker's gesture.
type DragState int

const (
	DragIdle DragState = iota
	DragActive
)

// Drag tracks a single marker through one press-move-release gesture.
// Movement samples carry the cumulative delta since the gesture began,
// and every sample re-clamps from the start position, so frames that
// hit a court edge do not accumulate drift into later frames.
//
// A Drag owns exactly one marker. Concurrent gestures on different
// markers use independent Drag values; none of this is goroutine-safe
// and none of it needs to be.
type Drag struct {
	court   Court
	state   DragState
	origin  Point
	current Point
}

// NewDrag returns an idle controller for markers on the given court.
func NewDrag(court Court) *Drag {
	return &Drag{court: court}
}

// State reports whether a gesture is in progress.
func (d *Drag) State() DragState {
	return d.state
}

// Start begins a gesture with the marker resting at origin. Starting
// while already active re-anchors the gesture, which is how interrupted
// gestures resolve: the previous one is treated as released at its last
// frame.
func (d *Drag) Start(origin Point) {
	d.state = DragActive
	d.origin = origin
	d.current = ClampPosition(origin, 0, 0, d.court)
}

// Move consumes one movement sample. dx and dy are cumulative since
// Start, not per-frame. Samples outside an active gesture are ignored.
func (d *Drag) Move(dx, dy float64) Point {
	if d.state != DragActive {
		return d.current
	}
	d.current = ClampPosition(d.origin, dx, dy, d.court)
	return d.current
}

// Release ends the gesture and returns the position to commit. The last
// clamped frame is always committed; there is no separate cancel path.
func (d *Drag) Release() Point {
	d.state = DragIdle
	return d.current
}

// Position is the marker's latest uncommitted position.
func (d *Drag) Position() Point {
	return d.current
}
