package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampPosition(t *testing.T) {
	court := Court{Width: 300, Height: 600}

	tests := []struct {
		name    string
		current Point
		dx, dy  float64
		want    Point
	}{
		{
			name:    "inside court is untouched",
			current: Point{X: 100, Y: 200},
			dx:      10, dy: -20,
			want: Point{X: 110, Y: 180},
		},
		{
			name:    "left and top clamp to zero",
			current: Point{X: 5, Y: 5},
			dx:      -50, dy: -300,
			want: Point{X: 0, Y: 0},
		},
		{
			name:    "right edge leaves room for the marker",
			current: Point{X: 250, Y: 100},
			dx:      500, dy: 0,
			want: Point{X: 260, Y: 100},
		},
		{
			name:    "bottom edge leaves room for the marker",
			current: Point{X: 100, Y: 550},
			dx:      0, dy: 500,
			want: Point{X: 100, Y: 560},
		},
		{
			name:    "zero delta re-clamps an out-of-bounds position",
			current: Point{X: 400, Y: -30},
			dx:      0, dy: 0,
			want: Point{X: 260, Y: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampPosition(tt.current, tt.dx, tt.dy, court)
			require.Equal(t, tt.want, got)
			require.True(t, court.Inside(got))
		})
	}
}

func TestClampPosition_DegenerateCourt(t *testing.T) {
	// Court smaller than a marker: the upper bound goes negative, and
	// the lower bound wins so positions settle at 0, not below.
	court := Court{Width: MarkerSize / 2, Height: MarkerSize / 2}

	got := ClampPosition(Point{X: 10, Y: 10}, 5, 5, court)
	require.Equal(t, Point{X: 0, Y: 0}, got)
}

func TestClampPosition_Idempotent(t *testing.T) {
	court := Court{Width: 280, Height: 500}

	once := ClampPosition(Point{X: 999, Y: 999}, 123, -456, court)
	twice := ClampPosition(once, 0, 0, court)
	require.Equal(t, once, twice)
}

func TestClampPosition_MonotonicInDelta(t *testing.T) {
	court := Court{Width: 300, Height: 600}
	start := Point{X: 150, Y: 300}

	tests := []struct {
		name   string
		deltas []float64
		axis   func(Point) float64
		move   func(float64) Point
	}{
		{
			name:   "growing dx never moves the marker left",
			deltas: []float64{-500, -100, 0, 50, 109, 110, 111, 500, 9999},
			axis:   func(p Point) float64 { return p.X },
			move:   func(d float64) Point { return ClampPosition(start, d, 0, court) },
		},
		{
			name:   "growing dy never moves the marker up",
			deltas: []float64{-900, -300, 0, 100, 259, 260, 261, 900, 9999},
			axis:   func(p Point) float64 { return p.Y },
			move:   func(d float64) Point { return ClampPosition(start, 0, d, court) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := tt.axis(tt.move(tt.deltas[0]))
			for _, d := range tt.deltas[1:] {
				cur := tt.axis(tt.move(d))
				require.GreaterOrEqual(t, cur, prev, "delta %v", d)
				prev = cur
			}
		})
	}
}
