package board

// MarkerSize is the rendered size of a player marker. Positions are
// clamped so the whole marker stays inside the court, never just its
// top-left corner.
const MarkerSize = 40

// Point is a marker coordinate on the board.
type Point struct {
	X float64
	Y float64
}

// ClampPosition applies a drag delta to a position and keeps the result
// inside the court. The lower bound is applied after the upper bound so
// degenerate courts smaller than a marker still resolve to 0 instead of
// a negative coordinate.
func ClampPosition(current Point, dx, dy float64, court Court) Point {
	return Point{
		X: clampAxis(current.X+dx, float64(court.Width)-MarkerSize),
		Y: clampAxis(current.Y+dy, float64(court.Height)-MarkerSize),
	}
}

func clampAxis(value, upper float64) float64 {
	if value > upper {
		value = upper
	}
	if value < 0 {
		return 0
	}
	return value
}

// Court bounds marker placement. Width and height are in the same board
// units as marker coordinates.
type Court struct {
	Width  int
	Height int
}

// Inside reports whether a point is a valid resting position for a
// marker on this court.
func (c Court) Inside(p Point) bool {
	return p.X >= 0 && p.X <= float64(c.Width)-MarkerSize &&
		p.Y >= 0 && p.Y <= float64(c.Height)-MarkerSize
}
