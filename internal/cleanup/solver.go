// Package cleanup refines already-routed schematic traces so they are
// visually clean: crossings untangled, turns minimized, L/Z bends balanced.
// The pipeline is a resumable state machine: each Step performs one bounded
// unit of work, so an external driver can interleave stepping with rendering
// or stop at any point and resume later.
package cleanup

import (
	"github.com/piwi3910/TraceTidy/internal/model"
	"github.com/piwi3910/TraceTidy/internal/scene"
)

// Solver is the stepping contract shared by the pipeline and any nested
// solver. Step performs one bounded unit of work; after Solved or Failed
// report true, further Step calls are no-ops.
type Solver interface {
	Step()
	Solved() bool
	Failed() bool
}

// TraceSetSolver is a nested solver that consumes a trace set and, when
// solved, produces a revised one. Result is only meaningful once Solved
// reports true; a failed solver has no usable output.
type TraceSetSolver interface {
	Solver
	Result() map[string]model.Trace
	DebugScene() scene.Scene
}

// Run advances a solver until it reaches a terminal state or maxSteps is
// exhausted. Returns true if the solver terminated. Bounding total work is
// the caller's responsibility; Run is the convenience driver for callers
// that do not need interleaved stepping.
func Run(s Solver, maxSteps int) bool {
	for i := 0; i < maxSteps; i++ {
		if s.Solved() || s.Failed() {
			return true
		}
		s.Step()
	}
	return s.Solved() || s.Failed()
}
