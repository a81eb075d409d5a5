package cleanup

import (
	"math"

	"github.com/piwi3910/TraceTidy/internal/geometry"
	"github.com/piwi3910/TraceTidy/internal/model"
)

// BalanceShapes adjusts Z-shaped bends for visual symmetry: the middle
// segment of a Z is re-centered between the two endpoints so the outer legs
// end up equal length. L-shapes and straight runs are already balanced and
// pass through unchanged. As with every transform, the prior geometry is
// kept whenever the balanced candidate would collide with an obstacle.
func BalanceShapes(traces []model.Trace, id string, ctx TransformContext) model.Trace {
	target, ok := findTrace(traces, id)
	if !ok {
		return target
	}

	cleaned := geometry.RemoveCollinear(target.Points)
	target.Points = cleaned
	if len(cleaned) != 4 {
		return target
	}

	segs := geometry.SegmentsOf(cleaned)
	if len(segs) != 3 {
		return target
	}
	first, mid, last := segs[0].Orient(), segs[1].Orient(), segs[2].Orient()
	if first == geometry.Diagonal || mid == geometry.Diagonal {
		return target
	}
	// A Z has parallel outer legs with a perpendicular middle segment.
	if first != last || first == mid {
		return target
	}

	a := cleaned[0]
	b := cleaned[3]
	var candidate []model.Point2D
	if mid == geometry.Vertical {
		mx := (a.X + b.X) / 2
		if math.Abs(cleaned[1].X-mx) < 1e-9 {
			return target // already centered
		}
		candidate = []model.Point2D{a, {X: mx, Y: a.Y}, {X: mx, Y: b.Y}, b}
	} else {
		my := (a.Y + b.Y) / 2
		if math.Abs(cleaned[1].Y-my) < 1e-9 {
			return target
		}
		candidate = []model.Point2D{a, {X: a.X, Y: my}, {X: b.X, Y: my}, b}
	}

	obs := buildObstacles(traces, id, ctx)
	if obs.clear(candidate) {
		target.Points = candidate
	}
	return target
}
