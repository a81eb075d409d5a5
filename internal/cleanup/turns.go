package cleanup

import (
	"github.com/piwi3910/TraceTidy/internal/geometry"
	"github.com/piwi3910/TraceTidy/internal/model"
)

// MinimizeTurns rewrites one trace with the fewest direction changes that
// still clears all obstacles. Candidates are tried cheapest-first: a straight
// run, then the two L-shapes, then midpoint Z-shapes. Endpoints are port
// positions and are never moved. When no candidate both reduces the bend
// count and clears the obstacle set, the prior geometry is returned with
// only collinear vertices removed.
func MinimizeTurns(traces []model.Trace, id string, ctx TransformContext) model.Trace {
	target, ok := findTrace(traces, id)
	if !ok || len(target.Points) < 2 {
		return target
	}

	cleaned := geometry.RemoveCollinear(target.Points)
	currentBends := model.CountBends(cleaned)
	if currentBends == 0 {
		target.Points = cleaned
		return target
	}

	obs := buildObstacles(traces, id, ctx)
	a := cleaned[0]
	b := cleaned[len(cleaned)-1]

	for _, candidate := range turnCandidates(a, b) {
		if model.CountBends(candidate) >= currentBends {
			continue
		}
		if obs.clear(candidate) {
			target.Points = candidate
			return target
		}
	}

	target.Points = cleaned
	return target
}

// turnCandidates enumerates replacement polylines between two fixed
// endpoints, ordered by bend count ascending.
func turnCandidates(a, b model.Point2D) [][]model.Point2D {
	var out [][]model.Point2D

	// Straight run, only when the endpoints share an axis
	if a.X == b.X || a.Y == b.Y {
		out = append(out, []model.Point2D{a, b})
	}

	// The two L-shapes
	if a.X != b.X && a.Y != b.Y {
		out = append(out,
			[]model.Point2D{a, {X: b.X, Y: a.Y}, b},
			[]model.Point2D{a, {X: a.X, Y: b.Y}, b},
		)
	}

	// Midpoint Z-shapes, horizontal-first and vertical-first
	if a.X != b.X && a.Y != b.Y {
		mx := (a.X + b.X) / 2
		my := (a.Y + b.Y) / 2
		out = append(out,
			[]model.Point2D{a, {X: mx, Y: a.Y}, {X: mx, Y: b.Y}, b},
			[]model.Point2D{a, {X: a.X, Y: my}, {X: b.X, Y: my}, b},
		)
	}

	return out
}

func findTrace(traces []model.Trace, id string) (model.Trace, bool) {
	for _, t := range traces {
		if t.ID == id {
			return t, true
		}
	}
	return model.Trace{}, false
}
