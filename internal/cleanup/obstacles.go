package cleanup

import (
	"github.com/piwi3910/TraceTidy/internal/geometry"
	"github.com/piwi3910/TraceTidy/internal/model"
)

// obstacleSet is the collision context a transform checks candidate geometry
// against: device bodies, net label boxes that do not belong to the target
// trace's net, and every other trace in the snapshot.
type obstacleSet struct {
	rects   []geometry.Rect
	others  [][]geometry.Segment
	padding float64
}

// buildObstacles collects the obstacles relevant to rewriting the trace with
// the given id. Label boxes whose net matches the trace, directly or through
// the merged-label grouping, are not obstacles: a trace is allowed to run
// under its own label.
func buildObstacles(traces []model.Trace, id string, ctx TransformContext) obstacleSet {
	obs := obstacleSet{padding: ctx.Padding}

	var net string
	for _, t := range traces {
		if t.ID == id {
			net = t.Net
			break
		}
	}

	for _, d := range ctx.Problem.Devices {
		obs.rects = append(obs.rects, geometry.Rect{X: d.X, Y: d.Y, W: d.Width, H: d.Height}.Inflate(ctx.Padding))
	}
	for _, l := range ctx.Labels {
		if l.Net == net || ctx.MergedNets.Subsumes(l.Net, net) {
			continue
		}
		obs.rects = append(obs.rects, geometry.Rect{X: l.X, Y: l.Y, W: l.Width, H: l.Height}.Inflate(ctx.Padding))
	}
	for _, t := range traces {
		if t.ID == id {
			continue
		}
		obs.others = append(obs.others, geometry.SegmentsOf(t.Points))
	}
	return obs
}

// clear reports whether a candidate polyline avoids every obstacle: it must
// not pass through any inflated rectangle, must not cross another trace, and
// must not run on top of another trace's parallel segment within the padding
// buffer.
func (obs obstacleSet) clear(points []model.Point2D) bool {
	for _, seg := range geometry.SegmentsOf(points) {
		for _, r := range obs.rects {
			if geometry.SegmentIntersectsRect(seg, r) {
				return false
			}
		}
		for _, other := range obs.others {
			for _, os := range other {
				if geometry.SegmentsCross(seg, os) {
					return false
				}
				if geometry.SegmentsOverlap(seg, os, obs.padding) {
					return false
				}
			}
		}
	}
	return true
}
