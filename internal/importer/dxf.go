package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/TraceTidy/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into continuous trace paths.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

// ImportDXF imports routed traces from a DXF file. Each LWPOLYLINE becomes a
// trace directly; loose LINE entities are chained by shared endpoints into
// open polylines, one trace per chain. DXF carries no net metadata the
// reader exposes, so traces receive sequential placeholder nets (NET1, NET2,
// ...) and the caller is expected to reassign them.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var paths [][]model.Point2D
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			pts, hadBulge := lwPolylineToPath(e)
			if hadBulge {
				result.Warnings = append(result.Warnings,
					"Flattened LWPOLYLINE arc segments; trace paths are straight-line only")
			}
			if len(pts) >= 2 {
				paths = append(paths, pts)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 2 vertices")
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point2D{X: e.End[0], Y: e.End[1]},
			})

		case *entity.Circle, *entity.Arc:
			result.Warnings = append(result.Warnings,
				"Skipped circular entity; traces are polylines")

		default:
			// Unsupported entity types are silently skipped
		}
	}

	// Chain loose LINE segments into open polylines
	for _, chain := range chainSegments(segments, 0.01) {
		if len(chain) >= 2 {
			paths = append(paths, chain)
		}
	}

	if len(paths) == 0 {
		result.Errors = append(result.Errors, "No trace paths found in DXF file")
		return result
	}

	for i, pts := range paths {
		length := pathLength(pts)
		if length < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate path (%.2f units long)", length))
			continue
		}
		net := fmt.Sprintf("NET%d", i+1)
		result.Traces = append(result.Traces, model.NewTrace(net, pts))
	}

	if len(result.Traces) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Assigned placeholder nets to %d traces; review net assignment", len(result.Traces)))
	}

	return result
}

// lwPolylineToPath converts a DXF LWPOLYLINE entity to a point path.
// Bulge values are dropped (vertices only); the second return reports
// whether any bulge was present.
func lwPolylineToPath(lw *entity.LwPolyline) ([]model.Point2D, bool) {
	pts := make([]model.Point2D, 0, len(lw.Vertices))
	hadBulge := false

	for i, v := range lw.Vertices {
		if i < len(lw.Bulges) && math.Abs(lw.Bulges[i]) > 1e-9 {
			hadBulge = true
		}
		pts = append(pts, model.Point2D{X: v[0], Y: v[1]})
	}

	return pts, hadBulge
}

// chainSegments connects individual segments into open polylines.
// tolerance is the maximum distance between endpoints to consider them
// connected. Chains can grow from both ends.
func chainSegments(segs []segment, tolerance float64) [][]model.Point2D {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var chains [][]model.Point2D

	for {
		// Find the first unused segment
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []model.Point2D{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		// Try to extend the chain at either end
		changed := true
		for changed {
			changed = false
			head := chain[0]
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				switch {
				case pointsClose(tail, seg.start, tolerance):
					chain = append(chain, seg.end)
				case pointsClose(tail, seg.end, tolerance):
					chain = append(chain, seg.start)
				case pointsClose(head, seg.start, tolerance):
					chain = append([]model.Point2D{seg.end}, chain...)
				case pointsClose(head, seg.end, tolerance):
					chain = append([]model.Point2D{seg.start}, chain...)
				default:
					continue
				}
				used[i] = true
				changed = true
				break
			}
		}

		chains = append(chains, chain)
	}

	// Sort chains by length (longest first) for consistent ordering
	sort.Slice(chains, func(i, j int) bool {
		return pathLength(chains[i]) > pathLength(chains[j])
	})

	return chains
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b model.Point2D, tolerance float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// pathLength sums the segment lengths of a polyline.
func pathLength(pts []model.Point2D) float64 {
	var total float64
	for i := 0; i < len(pts)-1; i++ {
		dx := pts[i+1].X - pts[i].X
		dy := pts[i+1].Y - pts[i].Y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}
