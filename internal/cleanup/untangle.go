package cleanup

import (
	"math"
	"sort"

	"github.com/piwi3910/TraceTidy/internal/geometry"
	"github.com/piwi3910/TraceTidy/internal/model"
	"github.com/piwi3910/TraceTidy/internal/scene"
)

// Untangler is the nested crossing-removal solver. It works on its own copy
// of the trace set in bounded passes: each Step examines one trace pair and,
// when their segments cross, nudges an interior segment of one trace clear
// of the other. A pass with no crossings left terminates the solver as
// solved; exhausting the pass budget with crossings remaining terminates it
// as failed, in which case the output is unusable and the caller keeps its
// prior trace set.
type Untangler struct {
	traces map[string]model.Trace
	order  []string

	pairs     [][2]string // remaining pairs for the current pass
	pass      int
	maxPasses int
	nudge     float64

	foundCrossing bool // any crossing seen this pass, fixed or not
	lastCrossing  *model.Point2D

	solved bool
	failed bool
	steps  int
}

// NewUntangler builds an untangle solver over a snapshot of the trace set.
func NewUntangler(traces []model.Trace, settings model.CleanupSettings) *Untangler {
	u := &Untangler{
		traces:    make(map[string]model.Trace, len(traces)),
		maxPasses: settings.UntangleMaxPasses,
		nudge:     settings.UntangleNudge,
	}
	if u.maxPasses < 1 {
		u.maxPasses = 1
	}
	if u.nudge <= 0 {
		u.nudge = 0.4
	}
	for _, t := range traces {
		u.traces[t.ID] = t
		u.order = append(u.order, t.ID)
	}
	u.pairs = u.seedPairs()
	return u
}

// seedPairs enumerates all unordered trace pairs in deterministic order.
func (u *Untangler) seedPairs() [][2]string {
	var pairs [][2]string
	for i := 0; i < len(u.order); i++ {
		for j := i + 1; j < len(u.order); j++ {
			pairs = append(pairs, [2]string{u.order[i], u.order[j]})
		}
	}
	return pairs
}

// Step examines one trace pair, or performs pass-boundary bookkeeping when
// the pair queue is empty.
func (u *Untangler) Step() {
	if u.solved || u.failed {
		return
	}
	u.steps++

	if len(u.pairs) == 0 {
		switch {
		case !u.foundCrossing:
			u.solved = true
		case u.pass+1 >= u.maxPasses:
			u.failed = true
		default:
			u.pass++
			u.foundCrossing = false
			u.pairs = u.seedPairs()
		}
		return
	}

	pair := u.pairs[0]
	u.pairs = u.pairs[1:]
	u.resolvePair(pair[0], pair[1])
}

// resolvePair finds the first crossing between two traces and tries to nudge
// one of them clear. An unfixable crossing still marks the pass as dirty so
// the solver eventually fails instead of claiming success.
func (u *Untangler) resolvePair(idA, idB string) {
	a := u.traces[idA]
	b := u.traces[idB]
	segsA := geometry.IndexedSegmentsOf(a.Points)
	segsB := geometry.IndexedSegmentsOf(b.Points)

	for i, sa := range segsA {
		for j, sb := range segsB {
			if !geometry.SegmentsCross(sa.Seg, sb.Seg) {
				continue
			}
			u.foundCrossing = true
			cx, cy := crossingPoint(sa.Seg, sb.Seg)
			u.lastCrossing = &model.Point2D{X: cx, Y: cy}

			if u.nudgeSegment(idA, i, sb.Seg) {
				return
			}
			u.nudgeSegment(idB, j, sa.Seg)
			return
		}
	}
}

// crossingPoint returns the intersection of a horizontal and a vertical
// segment known to cross.
func crossingPoint(a, b geometry.Segment) (float64, float64) {
	if a.Orient() == geometry.Horizontal {
		return b.Start.X, a.Start.Y
	}
	return a.Start.X, b.Start.Y
}

// nudgeSegment shifts an interior segment of the given trace past the extent
// of the crossed segment, picking the closer side. First and last segments
// end on port positions and cannot be moved; those report false so the
// caller can try the other trace.
func (u *Untangler) nudgeSegment(id string, segIdx int, crossed geometry.Segment) bool {
	t := u.traces[id]
	pts := t.ClonePoints()
	segs := geometry.IndexedSegmentsOf(pts)
	if segIdx <= 0 || segIdx >= len(segs)-1 {
		return false
	}
	seg := segs[segIdx].Seg
	vi := segs[segIdx].Index // vertex index; diverges from segIdx past duplicate vertices

	switch seg.Orient() {
	case geometry.Vertical:
		lo := math.Min(crossed.Start.X, crossed.End.X) - u.nudge
		hi := math.Max(crossed.Start.X, crossed.End.X) + u.nudge
		x := seg.Start.X
		newX := lo
		if hi-x < x-lo {
			newX = hi
		}
		pts[vi].X = newX
		pts[vi+1].X = newX
	case geometry.Horizontal:
		lo := math.Min(crossed.Start.Y, crossed.End.Y) - u.nudge
		hi := math.Max(crossed.Start.Y, crossed.End.Y) + u.nudge
		y := seg.Start.Y
		newY := lo
		if hi-y < y-lo {
			newY = hi
		}
		pts[vi].Y = newY
		pts[vi+1].Y = newY
	default:
		return false
	}

	t.Points = pts
	u.traces[id] = t
	return true
}

// Solved reports whether a full pass completed without crossings.
func (u *Untangler) Solved() bool { return u.solved }

// Failed reports whether the pass budget ran out with crossings remaining.
func (u *Untangler) Failed() bool { return u.failed }

// Steps returns the number of Step calls performed so far.
func (u *Untangler) Steps() int { return u.steps }

// Result returns the untangled trace set. Only meaningful once Solved
// reports true.
func (u *Untangler) Result() map[string]model.Trace {
	out := make(map[string]model.Trace, len(u.traces))
	for id, t := range u.traces {
		t.Points = t.ClonePoints()
		out[id] = t
	}
	return out
}

// DebugScene renders the solver's working trace set plus a mark at the most
// recently detected crossing. While this solver is active it owns the only
// consistent view of the traces, so the outer pipeline delegates here.
func (u *Untangler) DebugScene() scene.Scene {
	var s scene.Scene
	ids := append([]string(nil), u.order...)
	sort.Strings(ids)
	for _, id := range ids {
		t := u.traces[id]
		s.Lines = append(s.Lines, scene.Line{Points: t.Points, Net: t.Net, Label: t.ID})
	}
	if u.lastCrossing != nil {
		s.Marks = append(s.Marks, scene.Mark{X: u.lastCrossing.X, Y: u.lastCrossing.Y})
	}
	return s
}
