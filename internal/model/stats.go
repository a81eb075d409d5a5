package model

import "math"

// TraceStats holds per-trace geometry statistics.
type TraceStats struct {
	ID     string  `json:"id"`
	Net    string  `json:"net"`
	Bends  int     `json:"bends"`  // Direction changes along the polyline
	Length float64 `json:"length"` // Total polyline length
}

// LayoutStats aggregates geometry statistics over a whole trace set. Used by
// the summary report to show the effect of a cleanup run.
type LayoutStats struct {
	Traces      []TraceStats `json:"traces"`
	TotalBends  int          `json:"total_bends"`
	TotalLength float64      `json:"total_length"`
	MaxBends    int          `json:"max_bends"`
}

// CalculateLayoutStats computes bend counts and lengths for every trace.
func CalculateLayoutStats(traces []Trace) LayoutStats {
	stats := LayoutStats{Traces: make([]TraceStats, 0, len(traces))}
	for _, t := range traces {
		ts := TraceStats{
			ID:     t.ID,
			Net:    t.Net,
			Bends:  CountBends(t.Points),
			Length: PolylineLength(t.Points),
		}
		stats.Traces = append(stats.Traces, ts)
		stats.TotalBends += ts.Bends
		stats.TotalLength += ts.Length
		if ts.Bends > stats.MaxBends {
			stats.MaxBends = ts.Bends
		}
	}
	return stats
}

// CountBends returns the number of direction changes along a polyline.
// Collinear runs count as a single straight segment.
func CountBends(points []Point2D) int {
	bends := 0
	for i := 1; i < len(points)-1; i++ {
		d1x := points[i].X - points[i-1].X
		d1y := points[i].Y - points[i-1].Y
		d2x := points[i+1].X - points[i].X
		d2y := points[i+1].Y - points[i].Y
		// Cross product of consecutive direction vectors; zero means collinear
		if math.Abs(d1x*d2y-d1y*d2x) > 1e-9 {
			bends++
		}
	}
	return bends
}

// PolylineLength returns the total length of a polyline.
func PolylineLength(points []Point2D) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		dx := points[i].X - points[i-1].X
		dy := points[i].Y - points[i-1].Y
		total += math.Hypot(dx, dy)
	}
	return total
}
