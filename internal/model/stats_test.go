package model

import (
	"math"
	"testing"
)

func TestCountBends(t *testing.T) {
	straight := []Point2D{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}}
	if got := CountBends(straight); got != 0 {
		t.Errorf("straight run: expected 0 bends, got %d", got)
	}

	l := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}}
	if got := CountBends(l); got != 1 {
		t.Errorf("L-shape: expected 1 bend, got %d", got)
	}

	z := []Point2D{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 5}}
	if got := CountBends(z); got != 2 {
		t.Errorf("Z-shape: expected 2 bends, got %d", got)
	}
}

func TestPolylineLength(t *testing.T) {
	l := []Point2D{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}}
	if got := PolylineLength(l); math.Abs(got-7) > 1e-9 {
		t.Errorf("expected length 7, got %f", got)
	}
	if got := PolylineLength(nil); got != 0 {
		t.Errorf("empty polyline: expected 0, got %f", got)
	}
}

func TestCalculateLayoutStats(t *testing.T) {
	traces := []Trace{
		{ID: "a", Net: "N1", Points: []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}}},
		{ID: "b", Net: "N2", Points: []Point2D{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 5}}},
	}
	stats := CalculateLayoutStats(traces)

	if len(stats.Traces) != 2 {
		t.Fatalf("expected 2 trace stats, got %d", len(stats.Traces))
	}
	if stats.TotalBends != 2 {
		t.Errorf("expected 2 total bends, got %d", stats.TotalBends)
	}
	if stats.MaxBends != 2 {
		t.Errorf("expected max bends 2, got %d", stats.MaxBends)
	}
	if math.Abs(stats.TotalLength-25) > 1e-9 {
		t.Errorf("expected total length 25, got %f", stats.TotalLength)
	}
}

func TestTraceBoundingBox(t *testing.T) {
	tr := Trace{Points: []Point2D{{X: 3, Y: 7}, {X: -1, Y: 2}, {X: 5, Y: 4}}}
	min, max := tr.BoundingBox()
	if min != (Point2D{X: -1, Y: 2}) || max != (Point2D{X: 5, Y: 7}) {
		t.Errorf("unexpected bounds: min=%v max=%v", min, max)
	}
}
