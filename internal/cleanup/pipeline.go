package cleanup

import (
	"fmt"

	"github.com/piwi3910/TraceTidy/internal/geometry"
	"github.com/piwi3910/TraceTidy/internal/model"
)

// Phase identifies the cleanup stage currently running. Transitions are
// forward-only: untangle, minimize turns, balance shapes, done.
type Phase int

const (
	PhaseUntangle Phase = iota
	PhaseMinimizeTurns
	PhaseBalanceShapes
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseUntangle:
		return "untangle"
	case PhaseMinimizeTurns:
		return "minimize turns"
	case PhaseBalanceShapes:
		return "balance shapes"
	default:
		return "done"
	}
}

// TransformContext carries the immutable auxiliary data every per-trace
// transform receives alongside the trace-set snapshot.
type TransformContext struct {
	Problem    model.InputProblem
	Labels     []model.NetLabelPlacement
	MergedNets model.MergedNetLabels
	Padding    float64
}

// Transform rewrites the geometry of one trace. It receives a snapshot of
// the full current trace set (unordered), the id of the target trace, and
// the auxiliary context, and returns the replacement trace for that id only.
// Transforms never mutate the snapshot and never change the trace id; when
// no valid improvement exists they return the prior geometry unchanged.
type Transform func(traces []model.Trace, id string, ctx TransformContext) model.Trace

// Pipeline sequences the cleanup phases over a mutable trace set. It owns
// the authoritative trace map for its lifetime: transforms and the untangle
// sub-solver only ever see snapshots and return replacement values, applied
// by the pipeline after each call.
type Pipeline struct {
	problem    model.InputProblem
	labels     []model.NetLabelPlacement
	mergedNets model.MergedNetLabels
	settings   model.CleanupSettings

	phase    Phase
	traces   map[string]model.Trace
	order    []string // original input order, reused to seed every phase queue
	queue    []string // FIFO of trace ids for the current phase
	sub      TraceSetSolver
	activeID string

	minimize Transform
	balance  Transform
	// untangler builds the sub-solver from a snapshot; replaceable in tests
	untangler func([]model.Trace, model.CleanupSettings) TraceSetSolver

	solved         bool
	steps          int
	untangleFailed bool
	err            error
}

// NewPipeline builds a cleanup pipeline over the given traces. The input
// problem, label placements and merged-net grouping are context only and are
// never mutated. Trace ids must be unique; a duplicate id is reported as an
// error because silently dropping a trace would violate the cleanup
// guarantee that the output contains exactly the input ids.
func NewPipeline(problem model.InputProblem, traces []model.Trace, labels []model.NetLabelPlacement, mergedNets model.MergedNetLabels, settings model.CleanupSettings) (*Pipeline, error) {
	p := &Pipeline{
		problem:    problem,
		labels:     labels,
		mergedNets: mergedNets,
		settings:   settings,
		phase:      PhaseUntangle,
		traces:     make(map[string]model.Trace, len(traces)),
		minimize:   MinimizeTurns,
		balance:    BalanceShapes,
		untangler: func(ts []model.Trace, s model.CleanupSettings) TraceSetSolver {
			return NewUntangler(ts, s)
		},
	}
	for _, t := range traces {
		if _, dup := p.traces[t.ID]; dup {
			return nil, fmt.Errorf("duplicate trace id %q", t.ID)
		}
		p.traces[t.ID] = t
		p.order = append(p.order, t.ID)
	}
	return p, nil
}

// Step advances the pipeline by exactly one bounded unit of work: one
// sub-solver step, one trace transform, or one phase-boundary bookkeeping
// action. Calling Step after the pipeline is solved or has failed is a no-op.
func (p *Pipeline) Step() {
	if p.solved || p.err != nil {
		return
	}
	p.steps++

	// An active sub-solver suspends the phase machine until it terminates.
	if p.sub != nil {
		p.stepSubSolver()
		return
	}

	switch p.phase {
	case PhaseUntangle:
		p.sub = p.untangler(p.snapshot(), p.settings)

	case PhaseMinimizeTurns:
		if len(p.queue) == 0 {
			p.enterPhase(PhaseBalanceShapes)
			return
		}
		p.processNext(p.minimize)

	case PhaseBalanceShapes:
		if len(p.queue) == 0 {
			p.activeID = ""
			p.phase = PhaseDone
			p.solved = true
			return
		}
		p.processNext(p.balance)

	case PhaseDone:
		p.solved = true
	}
}

// stepSubSolver advances or retires the active sub-solver. On success its
// output becomes the authoritative trace set; on failure the pre-untangle
// set is kept and the pipeline moves on. Untangling is advisory: its failure
// never fails the pipeline.
func (p *Pipeline) stepSubSolver() {
	switch {
	case p.sub.Solved():
		out := p.sub.Result()
		rebuilt := make(map[string]model.Trace, len(out))
		for id, t := range out {
			rebuilt[id] = t
		}
		p.traces = rebuilt
		p.sub = nil
		p.enterPhase(PhaseMinimizeTurns)
	case p.sub.Failed():
		p.sub = nil
		p.untangleFailed = true
		p.enterPhase(PhaseMinimizeTurns)
	default:
		p.sub.Step()
	}
}

// enterPhase transitions to a per-trace phase, reseeding the work queue from
// the original id roster. Later phases deliberately re-traverse the original
// roster so every input trace gets exactly one visit per phase regardless of
// what happened upstream.
func (p *Pipeline) enterPhase(next Phase) {
	p.phase = next
	p.queue = append(p.queue[:0:0], p.order...)
	p.activeID = ""
}

// processNext pops one id off the queue and runs the given transform on it.
// A queued id missing from the trace map is a violated invariant, reported
// as a fatal pipeline error rather than skipped.
func (p *Pipeline) processNext(transform Transform) {
	id := p.queue[0]
	p.queue = p.queue[1:]

	current, ok := p.traces[id]
	if !ok {
		p.err = fmt.Errorf("cleanup: queued trace %q missing from trace set", id)
		return
	}
	p.activeID = id

	// Rectangular 4-point paths are already optimal; never disturb them.
	if geometry.IsRectangularPath(current.Points) {
		return
	}

	next := transform(p.snapshot(), id, p.context())
	next.ID = id // transforms must not rename; enforce regardless
	p.traces[id] = next
}

// snapshot returns a copy of the current trace set for transforms and the
// sub-solver to read. Geometry slices are cloned so callees cannot write
// into the authoritative set.
func (p *Pipeline) snapshot() []model.Trace {
	out := make([]model.Trace, 0, len(p.order))
	for _, id := range p.order {
		if t, ok := p.traces[id]; ok {
			t.Points = t.ClonePoints()
			out = append(out, t)
		}
	}
	return out
}

func (p *Pipeline) context() TransformContext {
	return TransformContext{
		Problem:    p.problem,
		Labels:     p.labels,
		MergedNets: p.mergedNets,
		Padding:    p.settings.PaddingBuffer,
	}
}

// Solved reports whether the pipeline has reached its terminal state.
func (p *Pipeline) Solved() bool { return p.solved }

// Failed reports whether an internal-consistency violation stopped the
// pipeline. Sub-solver failure does not count: that degrades gracefully.
func (p *Pipeline) Failed() bool { return p.err != nil }

// Err returns the fatal error that stopped the pipeline, if any.
func (p *Pipeline) Err() error { return p.err }

// Phase returns the currently active cleanup phase.
func (p *Pipeline) Phase() Phase { return p.phase }

// Steps returns the number of Step calls performed so far.
func (p *Pipeline) Steps() int { return p.steps }

// UntangleFailed reports whether the untangle sub-solver gave up, in which
// case the pre-untangle geometry was carried into the later phases.
func (p *Pipeline) UntangleFailed() bool { return p.untangleFailed }

// ActiveTraceID returns the id of the trace most recently processed, or ""
// at phase boundaries. Used by the debug scene to highlight work in flight.
func (p *Pipeline) ActiveTraceID() string { return p.activeID }

// Output returns the current trace set in original input order. It can be
// called at any time and reflects whatever phase the pipeline has reached;
// the result is only final once Solved reports true. Reading the output
// never changes pipeline state.
func (p *Pipeline) Output() []model.Trace {
	return p.snapshot()
}
