package geometry

import "math"

// Rect is an axis-aligned rectangle, top-left corner plus dimensions.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Inflate grows the rectangle by the given margin on every side.
func (r Rect) Inflate(margin float64) Rect {
	return Rect{
		X: r.X - margin,
		Y: r.Y - margin,
		W: r.W + 2*margin,
		H: r.H + 2*margin,
	}
}

// DistanceToRect computes the minimum distance from a point (px, py) to the
// boundary of a rectangle. Returns 0 if the point is inside.
func DistanceToRect(px, py float64, r Rect) float64 {
	// Nearest point on the rectangle to (px, py)
	nearestX := math.Max(r.X, math.Min(px, r.X+r.W))
	nearestY := math.Max(r.Y, math.Min(py, r.Y+r.H))

	dx := px - nearestX
	dy := py - nearestY

	return math.Sqrt(dx*dx + dy*dy)
}

// SegmentIntersectsRect reports whether an axis-aligned segment passes
// through a rectangle's interior.
func SegmentIntersectsRect(s Segment, r Rect) bool {
	switch s.Orient() {
	case Horizontal:
		y := s.Start.Y
		if y <= r.Top()+eps || y >= r.Bottom()-eps {
			return false
		}
		lo := math.Min(s.Start.X, s.End.X)
		hi := math.Max(s.Start.X, s.End.X)
		return hi > r.Left()+eps && lo < r.Right()-eps
	case Vertical:
		x := s.Start.X
		if x <= r.Left()+eps || x >= r.Right()-eps {
			return false
		}
		lo := math.Min(s.Start.Y, s.End.Y)
		hi := math.Max(s.Start.Y, s.End.Y)
		return hi > r.Top()+eps && lo < r.Bottom()-eps
	default:
		// Diagonal segments are conservatively sampled at endpoints and midpoint
		for _, t := range []float64{0, 0.25, 0.5, 0.75, 1} {
			px := s.Start.X + t*(s.End.X-s.Start.X)
			py := s.Start.Y + t*(s.End.Y-s.Start.Y)
			if px > r.Left()+eps && px < r.Right()-eps && py > r.Top()+eps && py < r.Bottom()-eps {
				return true
			}
		}
		return false
	}
}

// SegmentsCross reports whether two axis-aligned segments cross at an
// interior point of both. Touching at endpoints does not count.
func SegmentsCross(a, b Segment) bool {
	ao, bo := a.Orient(), b.Orient()
	if ao == bo || ao == Diagonal || bo == Diagonal {
		return false
	}
	h, v := a, b
	if ao == Vertical {
		h, v = b, a
	}
	hy := h.Start.Y
	vx := v.Start.X
	hLo := math.Min(h.Start.X, h.End.X)
	hHi := math.Max(h.Start.X, h.End.X)
	vLo := math.Min(v.Start.Y, v.End.Y)
	vHi := math.Max(v.Start.Y, v.End.Y)
	return vx > hLo+eps && vx < hHi-eps && hy > vLo+eps && hy < vHi-eps
}

// SegmentsOverlap reports whether two parallel axis-aligned segments run on
// top of each other: same fixed coordinate within tolerance and overlapping
// ranges along the varying coordinate.
func SegmentsOverlap(a, b Segment, tolerance float64) bool {
	ao, bo := a.Orient(), b.Orient()
	if ao != bo || ao == Diagonal {
		return false
	}
	var aFixed, bFixed, aLo, aHi, bLo, bHi float64
	if ao == Horizontal {
		aFixed, bFixed = a.Start.Y, b.Start.Y
		aLo, aHi = math.Min(a.Start.X, a.End.X), math.Max(a.Start.X, a.End.X)
		bLo, bHi = math.Min(b.Start.X, b.End.X), math.Max(b.Start.X, b.End.X)
	} else {
		aFixed, bFixed = a.Start.X, b.Start.X
		aLo, aHi = math.Min(a.Start.Y, a.End.Y), math.Max(a.Start.Y, a.End.Y)
		bLo, bHi = math.Min(b.Start.Y, b.End.Y), math.Max(b.Start.Y, b.End.Y)
	}
	if math.Abs(aFixed-bFixed) > tolerance {
		return false
	}
	return aHi > bLo+eps && bHi > aLo+eps
}
