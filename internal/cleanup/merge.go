package cleanup

import (
	"github.com/piwi3910/TraceTidy/internal/geometry"
	"github.com/piwi3910/TraceTidy/internal/model"
)

// MergeByNet joins traces of the same net whose endpoints coincide into
// single polylines. It is an explicit, idempotent post-processing step: it
// returns a new slice and never touches pipeline state, so callers opt in
// once after the pipeline is solved. The surviving trace keeps the id of the
// earlier trace in input order; merging is the one operation that may reduce
// the number of traces, which is why it lives outside the cleanup pipeline
// and its identifier-stability guarantee.
func MergeByNet(traces []model.Trace) []model.Trace {
	out := make([]model.Trace, len(traces))
	for i, t := range traces {
		out[i] = t
		out[i].Points = t.ClonePoints()
	}

	for {
		merged := false
		for i := 0; i < len(out) && !merged; i++ {
			for j := i + 1; j < len(out); j++ {
				if out[i].Net != out[j].Net {
					continue
				}
				joined, ok := joinPolylines(out[i].Points, out[j].Points)
				if !ok {
					continue
				}
				out[i].Points = geometry.RemoveCollinear(joined)
				out = append(out[:j], out[j+1:]...)
				merged = true
				break
			}
		}
		if !merged {
			return out
		}
	}
}

// joinPolylines concatenates two polylines that share an endpoint, orienting
// them so the shared point sits in the middle.
func joinPolylines(a, b []model.Point2D) ([]model.Point2D, bool) {
	if len(a) == 0 || len(b) == 0 {
		return nil, false
	}
	aStart, aEnd := a[0], a[len(a)-1]
	bStart, bEnd := b[0], b[len(b)-1]

	switch {
	case geometry.PointsEqual(aEnd, bStart):
		return append(append([]model.Point2D{}, a...), b[1:]...), true
	case geometry.PointsEqual(aEnd, bEnd):
		return append(append([]model.Point2D{}, a...), reversePoints(b)[1:]...), true
	case geometry.PointsEqual(aStart, bEnd):
		return append(append([]model.Point2D{}, b...), a[1:]...), true
	case geometry.PointsEqual(aStart, bStart):
		return append(reversePoints(b), a[1:]...), true
	default:
		return nil, false
	}
}

func reversePoints(points []model.Point2D) []model.Point2D {
	out := make([]model.Point2D, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}
