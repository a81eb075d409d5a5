package cleanup

import (
	"fmt"

	"github.com/piwi3910/TraceTidy/internal/model"
)

// Report summarizes the effect of a cleanup run for display and export.
type Report struct {
	Before model.LayoutStats
	After  model.LayoutStats

	BendsRemoved int
	LengthDelta  float64
	Steps        int
	Untangled    bool // false when the untangle sub-solver gave up
}

// BuildReport computes before/after statistics for a completed cleanup run.
func BuildReport(before, after []model.Trace, steps int, untangled bool) Report {
	b := model.CalculateLayoutStats(before)
	a := model.CalculateLayoutStats(after)
	return Report{
		Before:       b,
		After:        a,
		BendsRemoved: b.TotalBends - a.TotalBends,
		LengthDelta:  a.TotalLength - b.TotalLength,
		Steps:        steps,
		Untangled:    untangled,
	}
}

// Summary renders a short human-readable report.
func (r Report) Summary() []string {
	lines := []string{
		fmt.Sprintf("Traces: %d", len(r.After.Traces)),
		fmt.Sprintf("Bends: %d -> %d (%+d)", r.Before.TotalBends, r.After.TotalBends, -r.BendsRemoved),
		fmt.Sprintf("Total length: %.2f -> %.2f (%+.2f)", r.Before.TotalLength, r.After.TotalLength, r.LengthDelta),
		fmt.Sprintf("Steps: %d", r.Steps),
	}
	if !r.Untangled {
		lines = append(lines, "Untangling did not converge; crossings may remain")
	}
	return lines
}
