// Package geometry provides pure predicates and helpers on trace polylines.
// Everything here is side-effect free: functions take geometry and return
// geometry or booleans, never mutating their inputs.
package geometry

import (
	"math"

	"github.com/piwi3910/TraceTidy/internal/model"
)

const eps = 1e-9

// Orientation of an axis-aligned segment.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
	Diagonal // Not axis-aligned
)

// Segment is one edge of a trace polyline.
type Segment struct {
	Start model.Point2D
	End   model.Point2D
}

// Orient classifies a segment as horizontal, vertical or diagonal.
func (s Segment) Orient() Orientation {
	dx := math.Abs(s.End.X - s.Start.X)
	dy := math.Abs(s.End.Y - s.Start.Y)
	switch {
	case dy < eps && dx >= eps:
		return Horizontal
	case dx < eps && dy >= eps:
		return Vertical
	default:
		return Diagonal
	}
}

// SegmentsOf decomposes a polyline into its segments, skipping zero-length
// edges produced by duplicate vertices.
func SegmentsOf(points []model.Point2D) []Segment {
	var segs []Segment
	for i := 1; i < len(points); i++ {
		if PointsEqual(points[i-1], points[i]) {
			continue
		}
		segs = append(segs, Segment{Start: points[i-1], End: points[i]})
	}
	return segs
}

// IndexedSegment pairs a segment with the index of its start vertex in the
// source polyline. When zero-length edges are skipped the segment position
// and the vertex position diverge, so callers that write vertices back need
// the vertex index. The segment's end vertex is always Index+1.
type IndexedSegment struct {
	Seg   Segment
	Index int
}

// IndexedSegmentsOf decomposes a polyline like SegmentsOf but keeps, for
// each segment, the index of its start vertex.
func IndexedSegmentsOf(points []model.Point2D) []IndexedSegment {
	var segs []IndexedSegment
	for i := 1; i < len(points); i++ {
		if PointsEqual(points[i-1], points[i]) {
			continue
		}
		segs = append(segs, IndexedSegment{
			Seg:   Segment{Start: points[i-1], End: points[i]},
			Index: i - 1,
		})
	}
	return segs
}

// PointsEqual reports whether two points coincide within tolerance.
func PointsEqual(a, b model.Point2D) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

// IsAxisAligned reports whether every segment of the polyline is horizontal
// or vertical.
func IsAxisAligned(points []model.Point2D) bool {
	for _, s := range SegmentsOf(points) {
		if s.Orient() == Diagonal {
			return false
		}
	}
	return true
}

// IsRectangularPath reports whether a polyline is an axis-aligned rectangular
// path described by exactly 4 points: three segments, each horizontal or
// vertical, adjacent segments alternating orientation, and the outer two
// segments running in opposite directions so the path traces three sides of
// a rectangle. Z-shapes share the point count and alternation but their
// outer segments run the same way, and they stay eligible for balancing.
// Rectangular paths are already optimal and cleanup must leave them
// untouched.
func IsRectangularPath(points []model.Point2D) bool {
	if len(points) != 4 {
		return false
	}
	segs := SegmentsOf(points)
	if len(segs) != 3 {
		return false
	}
	for i, s := range segs {
		o := s.Orient()
		if o == Diagonal {
			return false
		}
		if i > 0 && o == segs[i-1].Orient() {
			return false
		}
	}
	first, last := segs[0], segs[2]
	dot := (first.End.X-first.Start.X)*(last.End.X-last.Start.X) +
		(first.End.Y-first.Start.Y)*(last.End.Y-last.Start.Y)
	return dot < 0
}

// RemoveCollinear drops interior vertices that lie on a straight line between
// their neighbors, and collapses duplicate consecutive vertices. Endpoints
// are always preserved.
func RemoveCollinear(points []model.Point2D) []model.Point2D {
	if len(points) <= 2 {
		out := make([]model.Point2D, len(points))
		copy(out, points)
		return out
	}
	out := []model.Point2D{points[0]}
	for i := 1; i < len(points)-1; i++ {
		prev := out[len(out)-1]
		cur, next := points[i], points[i+1]
		if PointsEqual(prev, cur) {
			continue
		}
		d1x, d1y := cur.X-prev.X, cur.Y-prev.Y
		d2x, d2y := next.X-cur.X, next.Y-cur.Y
		if math.Abs(d1x*d2y-d1y*d2x) < eps && d1x*d2x+d1y*d2y > -eps {
			continue // collinear, same general direction
		}
		out = append(out, cur)
	}
	last := points[len(points)-1]
	if !PointsEqual(out[len(out)-1], last) || len(out) == 1 {
		out = append(out, last)
	}
	return out
}
