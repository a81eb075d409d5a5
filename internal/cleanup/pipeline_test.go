package cleanup

import (
	"testing"

	"github.com/piwi3910/TraceTidy/internal/model"
	"github.com/piwi3910/TraceTidy/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingSolver always reports failed with no usable output.
type failingSolver struct{}

func (failingSolver) Step()                          {}
func (failingSolver) Solved() bool                   { return false }
func (failingSolver) Failed() bool                   { return true }
func (failingSolver) Result() map[string]model.Trace { return nil }
func (failingSolver) DebugScene() scene.Scene        { return scene.Scene{} }

// stuckSolver never terminates on its own.
type stuckSolver struct{ steps int }

func (s *stuckSolver) Step()                          { s.steps++ }
func (s *stuckSolver) Solved() bool                   { return false }
func (s *stuckSolver) Failed() bool                   { return false }
func (s *stuckSolver) Result() map[string]model.Trace { return nil }
func (s *stuckSolver) DebugScene() scene.Scene {
	return scene.Scene{Lines: []scene.Line{{Label: "from-subsolver"}}}
}

func rectangleTrace() model.Trace {
	return model.Trace{ID: "rect", Net: "N1", Points: []model.Point2D{
		{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0},
	}}
}

func zigzagTrace() model.Trace {
	return model.Trace{ID: "zig", Net: "N2", Points: []model.Point2D{
		{X: 0, Y: 20}, {X: 2, Y: 20}, {X: 2, Y: 22}, {X: 4, Y: 22},
		{X: 4, Y: 20}, {X: 6, Y: 20}, {X: 6, Y: 22}, {X: 8, Y: 22},
	}}
}

func newTestPipeline(t *testing.T, traces ...model.Trace) *Pipeline {
	t.Helper()
	p, err := NewPipeline(model.InputProblem{}, traces, nil, nil, model.DefaultSettings())
	require.NoError(t, err)
	return p
}

func withFailingUntangler(p *Pipeline) *Pipeline {
	p.untangler = func([]model.Trace, model.CleanupSettings) TraceSetSolver {
		return failingSolver{}
	}
	return p
}

func TestPipelineScenarioFailingUntangler(t *testing.T) {
	rect := rectangleTrace()
	zig := zigzagTrace()
	p := withFailingUntangler(newTestPipeline(t, rect, zig))

	require.True(t, Run(p, 100), "pipeline must terminate")
	require.True(t, p.Solved())
	require.NoError(t, p.Err())

	// One step to create the sub-solver, one to observe its failure, one per
	// trace per phase, one reseed, one terminal transition.
	assert.Equal(t, 8, p.Steps())

	out := p.Output()
	require.Len(t, out, 2)
	assert.Equal(t, "rect", out[0].ID)
	assert.Equal(t, "zig", out[1].ID)

	// Rectangle geometry must be bit-identical.
	assert.Equal(t, rect.Points, out[0].Points)
}

func TestPipelineExactlyOnceVisitation(t *testing.T) {
	p := withFailingUntangler(newTestPipeline(t, rectangleTrace(), zigzagTrace()))

	minimized := map[string]int{}
	balanced := map[string]int{}
	p.minimize = func(traces []model.Trace, id string, ctx TransformContext) model.Trace {
		minimized[id]++
		return MinimizeTurns(traces, id, ctx)
	}
	p.balance = func(traces []model.Trace, id string, ctx TransformContext) model.Trace {
		balanced[id]++
		return BalanceShapes(traces, id, ctx)
	}

	require.True(t, Run(p, 100))

	// The rectangle short-circuits before the transform is called; the
	// zig-zag is transformed exactly once per phase.
	assert.Equal(t, map[string]int{"zig": 1}, minimized)
	assert.Equal(t, map[string]int{"zig": 1}, balanced)
}

func TestPipelinePhaseOrdering(t *testing.T) {
	p := withFailingUntangler(newTestPipeline(t, rectangleTrace(), zigzagTrace()))

	var phases []Phase
	for !p.Solved() && !p.Failed() {
		phases = append(phases, p.Phase())
		p.Step()
	}

	// Phases must appear in order with no regressions.
	last := PhaseUntangle
	for _, ph := range phases {
		require.GreaterOrEqual(t, int(ph), int(last), "phase regressed")
		last = ph
	}
	assert.Contains(t, phases, PhaseMinimizeTurns)
	assert.Contains(t, phases, PhaseBalanceShapes)
}

func TestPipelineResumability(t *testing.T) {
	build := func() *Pipeline {
		return withFailingUntangler(newTestPipeline(t, rectangleTrace(), zigzagTrace()))
	}

	straight := build()
	require.True(t, Run(straight, 100))

	// Advance in two bursts of 3 then the rest.
	chunked := build()
	for i := 0; i < 3; i++ {
		chunked.Step()
	}
	intermediate := chunked.Output()
	require.Len(t, intermediate, 2, "output callable mid-run")
	require.True(t, Run(chunked, 100))

	assert.Equal(t, straight.Output(), chunked.Output())
	assert.Equal(t, straight.Steps(), chunked.Steps())
}

func TestPipelineIdentifierStability(t *testing.T) {
	traces := []model.Trace{rectangleTrace(), zigzagTrace()}
	p := newTestPipeline(t, traces...)
	require.True(t, Run(p, p.settings.MaxSteps))
	require.True(t, p.Solved())

	out := p.Output()
	require.Len(t, out, len(traces))
	for i, tr := range traces {
		assert.Equal(t, tr.ID, out[i].ID)
		assert.Equal(t, tr.Net, out[i].Net)
	}
}

func TestPipelineMissingQueuedTraceIsFatal(t *testing.T) {
	p := withFailingUntangler(newTestPipeline(t, zigzagTrace()))

	// Move past the untangle phase, then violate the invariant directly.
	p.Step()
	p.Step()
	require.Equal(t, PhaseMinimizeTurns, p.Phase())
	delete(p.traces, "zig")

	p.Step()
	assert.True(t, p.Failed())
	assert.Error(t, p.Err())
	assert.False(t, p.Solved())

	// Further stepping stays put.
	steps := p.Steps()
	p.Step()
	assert.Equal(t, steps, p.Steps())
}

func TestPipelineDuplicateIDRejected(t *testing.T) {
	a := rectangleTrace()
	b := rectangleTrace()
	_, err := NewPipeline(model.InputProblem{}, []model.Trace{a, b}, nil, nil, model.DefaultSettings())
	assert.Error(t, err)
}

func TestPipelineUntangleFailedFlag(t *testing.T) {
	p := withFailingUntangler(newTestPipeline(t, zigzagTrace()))
	require.True(t, Run(p, 100))
	assert.True(t, p.UntangleFailed())

	clean := newTestPipeline(t, zigzagTrace())
	require.True(t, Run(clean, clean.settings.MaxSteps))
	assert.False(t, clean.UntangleFailed())
}

func TestPipelineDebugSceneDelegatesToSubSolver(t *testing.T) {
	p := newTestPipeline(t, zigzagTrace())
	stuck := &stuckSolver{}
	p.untangler = func([]model.Trace, model.CleanupSettings) TraceSetSolver { return stuck }

	p.Step() // instantiate the sub-solver
	require.Equal(t, PhaseUntangle, p.Phase())

	s := p.DebugScene()
	require.Len(t, s.Lines, 1)
	assert.Equal(t, "from-subsolver", s.Lines[0].Label)

	// Stepping now advances the sub-solver, not the outer machine.
	p.Step()
	assert.Equal(t, 1, stuck.steps)
	assert.Equal(t, PhaseUntangle, p.Phase())
}

func TestPipelineDebugSceneHighlightsActiveTrace(t *testing.T) {
	p := withFailingUntangler(newTestPipeline(t, rectangleTrace(), zigzagTrace()))
	p.Step()
	p.Step()
	p.Step() // processes "rect" in minimize phase
	require.Equal(t, "rect", p.ActiveTraceID())

	s := p.DebugScene()
	require.Len(t, s.Lines, 2)
	for _, l := range s.Lines {
		assert.Equal(t, l.Label == "rect", l.Highlight)
	}
}

func TestPipelineDebugSceneIsReadOnly(t *testing.T) {
	p := withFailingUntangler(newTestPipeline(t, rectangleTrace(), zigzagTrace()))
	require.True(t, Run(p, 100))

	before := p.Output()
	for i := 0; i < 3; i++ {
		p.DebugScene()
	}
	assert.Equal(t, before, p.Output(), "debug scene must not mutate output")
}

func TestPipelineEmptyTraceSet(t *testing.T) {
	p := withFailingUntangler(newTestPipeline(t))
	require.True(t, Run(p, 100))
	assert.True(t, p.Solved())
	assert.Empty(t, p.Output())
}
