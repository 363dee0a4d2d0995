package board

import "testing"

func TestDrag_CumulativeDeltasDoNotAccumulateDrift(t *testing.T) {
	court := Court{Width: 300, Height: 600}
	drag := NewDrag(court)
	drag.Start(Point{X: 250, Y: 100})

	// Push far past the right edge, then come back. Each sample is the
	// cumulative delta since Start, so after the wall the marker must
	// follow the finger again immediately instead of sticking.
	drag.Move(200, 0)
	got := drag.Move(-10, 0)

	want := Point{X: 240, Y: 100}
	if got != want {
		t.Fatalf("expected %+v after returning from the edge, got %+v", want, got)
	}
}

func TestDrag_ReleaseCommitsLastFrame(t *testing.T) {
	court := Court{Width: 300, Height: 600}
	drag := NewDrag(court)
	drag.Start(Point{X: 50, Y: 50})

	drag.Move(30, 40)
	final := drag.Release()

	if (final != Point{X: 80, Y: 90}) {
		t.Fatalf("expected release to commit the last clamped frame, got %+v", final)
	}
	if drag.State() != DragIdle {
		t.Fatalf("expected drag to be idle after release")
	}
}

func TestDrag_MoveIgnoredWhenIdle(t *testing.T) {
	drag := NewDrag(Court{Width: 300, Height: 600})

	got := drag.Move(100, 100)
	if (got != Point{}) {
		t.Fatalf("expected idle drag to ignore samples, got %+v", got)
	}
}

func TestDrag_RestartReanchorsInterruptedGesture(t *testing.T) {
	court := Court{Width: 300, Height: 600}
	drag := NewDrag(court)

	drag.Start(Point{X: 10, Y: 10})
	drag.Move(40, 40)

	// A second Start without Release is an interrupted gesture: the new
	// anchor replaces the old one and deltas are relative to it.
	drag.Start(Point{X: 100, Y: 100})
	got := drag.Move(10, 0)

	want := Point{X: 110, Y: 100}
	if got != want {
		t.Fatalf("expected re-anchored gesture to move from the new origin, got %+v", got)
	}
}
