package cleanup

import (
	"testing"

	"github.com/piwi3910/TraceTidy/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCtx() TransformContext {
	return TransformContext{Padding: 0.2}
}

func TestMinimizeTurnsStaircaseToL(t *testing.T) {
	staircase := model.Trace{ID: "s", Net: "N", Points: []model.Point2D{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 4, Y: 2},
		{X: 4, Y: 4}, {X: 6, Y: 4}, {X: 6, Y: 6}, {X: 8, Y: 6},
	}}

	out := MinimizeTurns([]model.Trace{staircase}, "s", defaultCtx())

	assert.Equal(t, "s", out.ID)
	assert.Equal(t, 1, model.CountBends(out.Points), "staircase should collapse to an L")
	assert.Equal(t, staircase.Points[0], out.Points[0], "start endpoint moved")
	assert.Equal(t, staircase.Points[len(staircase.Points)-1], out.Points[len(out.Points)-1], "end endpoint moved")
}

func TestMinimizeTurnsBlockedByDevice(t *testing.T) {
	// A detour around a device body: both L-shapes and both Z-shapes pass
	// through the device, so the original detour must be kept.
	detour := model.Trace{ID: "d", Net: "N", Points: []model.Point2D{
		{X: 0, Y: 5}, {X: 0, Y: 12}, {X: 10, Y: 12}, {X: 10, Y: 5},
	}}
	ctx := defaultCtx()
	ctx.Problem = model.InputProblem{Devices: []model.Device{
		{ID: "u1", Label: "U1", X: 1, Y: 0, Width: 8, Height: 10},
	}}

	out := MinimizeTurns([]model.Trace{detour}, "d", ctx)
	assert.Equal(t, detour.Points, out.Points, "blocked transform must keep prior geometry")
}

func TestMinimizeTurnsOwnLabelIsNotObstacle(t *testing.T) {
	trace := model.Trace{ID: "t", Net: "VCC", Points: []model.Point2D{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 8, Y: 4},
	}}
	label := model.NetLabelPlacement{Net: "VCC", X: 0, Y: 0, Width: 8, Height: 4}

	ctx := defaultCtx()
	ctx.Labels = []model.NetLabelPlacement{label}
	out := MinimizeTurns([]model.Trace{trace}, "t", ctx)
	assert.Less(t, model.CountBends(out.Points), model.CountBends(trace.Points),
		"a trace may run under its own net label")

	// The same box on a foreign net blocks the rewrite.
	foreign := ctx
	foreign.Labels = []model.NetLabelPlacement{{Net: "GND", X: label.X, Y: label.Y, Width: label.Width, Height: label.Height}}
	kept := MinimizeTurns([]model.Trace{trace}, "t", foreign)
	assert.Equal(t, model.CountBends(trace.Points), model.CountBends(kept.Points),
		"foreign label must block the shortcut")
}

func TestMinimizeTurnsMergedLabelSubsumesNet(t *testing.T) {
	trace := model.Trace{ID: "t", Net: "VCC3", Points: []model.Point2D{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 8, Y: 4},
	}}
	ctx := defaultCtx()
	ctx.Labels = []model.NetLabelPlacement{{Net: "PWR", X: 0, Y: 0, Width: 8, Height: 4}}
	ctx.MergedNets = model.MergedNetLabels{"PWR": {"VCC3", "VCC5"}}

	out := MinimizeTurns([]model.Trace{trace}, "t", ctx)
	assert.Less(t, model.CountBends(out.Points), model.CountBends(trace.Points),
		"merged label covering the net is not an obstacle")
}

func TestMinimizeTurnsStraightStaysStraight(t *testing.T) {
	straight := model.Trace{ID: "s", Net: "N", Points: []model.Point2D{
		{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0},
	}}
	out := MinimizeTurns([]model.Trace{straight}, "s", defaultCtx())
	assert.Equal(t, []model.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}}, out.Points,
		"collinear interior vertex should be dropped")
}

func TestBalanceShapesCentersZ(t *testing.T) {
	// Off-center Z: middle vertical at x=1 between endpoints x=0..10.
	z := model.Trace{ID: "z", Net: "N", Points: []model.Point2D{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 6}, {X: 10, Y: 6},
	}}
	out := BalanceShapes([]model.Trace{z}, "z", defaultCtx())

	require.Len(t, out.Points, 4)
	assert.Equal(t, 5.0, out.Points[1].X, "middle segment should move to the midpoint")
	assert.Equal(t, 5.0, out.Points[2].X)
	assert.Equal(t, z.Points[0], out.Points[0])
	assert.Equal(t, z.Points[3], out.Points[3])
}

func TestBalanceShapesCentersHorizontalZ(t *testing.T) {
	z := model.Trace{ID: "z", Net: "N", Points: []model.Point2D{
		{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 8, Y: 1}, {X: 8, Y: 10},
	}}
	out := BalanceShapes([]model.Trace{z}, "z", defaultCtx())

	require.Len(t, out.Points, 4)
	assert.Equal(t, 5.0, out.Points[1].Y)
	assert.Equal(t, 5.0, out.Points[2].Y)
}

func TestBalanceShapesLeavesLAlone(t *testing.T) {
	l := model.Trace{ID: "l", Net: "N", Points: []model.Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5},
	}}
	out := BalanceShapes([]model.Trace{l}, "l", defaultCtx())
	assert.Equal(t, l.Points, out.Points)
}

func TestBalanceShapesBlockedKeepsPrior(t *testing.T) {
	z := model.Trace{ID: "z", Net: "N", Points: []model.Point2D{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 6}, {X: 10, Y: 6},
	}}
	ctx := defaultCtx()
	// Device sitting exactly where the centered middle segment would go.
	ctx.Problem = model.InputProblem{Devices: []model.Device{
		{ID: "u1", Label: "U1", X: 4, Y: 1, Width: 2, Height: 4},
	}}

	out := BalanceShapes([]model.Trace{z}, "z", ctx)
	assert.Equal(t, z.Points, out.Points)
}

func TestTransformsDoNotMutateSnapshot(t *testing.T) {
	traces := []model.Trace{zigzagTrace(), rectangleTrace()}
	snapshot := make([]model.Trace, len(traces))
	for i, tr := range traces {
		snapshot[i] = tr
		snapshot[i].Points = tr.ClonePoints()
	}

	MinimizeTurns(snapshot, "zig", defaultCtx())
	BalanceShapes(snapshot, "zig", defaultCtx())

	for i := range traces {
		assert.Equal(t, traces[i].Points, snapshot[i].Points, "transform mutated its input snapshot")
	}
}
