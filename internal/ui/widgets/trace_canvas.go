package widgets

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/TraceTidy/internal/scene"
)

// Net colors — cycle through these for visual distinction.
var netColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 220},  // green
	{R: 33, G: 150, B: 243, A: 220}, // blue
	{R: 255, G: 152, B: 0, A: 220},  // orange
	{R: 156, G: 39, B: 176, A: 220}, // purple
	{R: 0, G: 188, B: 212, A: 220},  // cyan
	{R: 244, G: 67, B: 54, A: 220},  // red
	{R: 255, G: 235, B: 59, A: 220}, // yellow
	{R: 121, G: 85, B: 72, A: 220},  // brown
}

// TraceCanvas renders a scene graph snapshot of the cleanup state: device
// bodies and label boxes dimmed in the background, one polyline per trace,
// crossing marks, and annotations. Call SetScene and Refresh between steps.
type TraceCanvas struct {
	widget.BaseWidget
	scene     scene.Scene
	maxWidth  float32
	maxHeight float32
}

func NewTraceCanvas(sc scene.Scene, maxW, maxH float32) *TraceCanvas {
	tc := &TraceCanvas{
		scene:     sc,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	tc.ExtendBaseWidget(tc)
	return tc
}

// SetScene swaps the rendered scene. The caller must Refresh afterwards.
func (tc *TraceCanvas) SetScene(sc scene.Scene) {
	tc.scene = sc
}

func (tc *TraceCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newTraceCanvasRenderer(tc)
}

type traceCanvasRenderer struct {
	tc      *TraceCanvas
	objects []fyne.CanvasObject
}

func newTraceCanvasRenderer(tc *TraceCanvas) *traceCanvasRenderer {
	r := &traceCanvasRenderer{tc: tc}
	r.rebuild()
	return r
}

// sceneTransform computes the scale and offset mapping scene coordinates
// onto the widget area. Returns ok = false for an empty scene.
func (tc *TraceCanvas) sceneTransform() (scale, offX, offY float32, ok bool) {
	min, max, ok := tc.scene.Bounds()
	if !ok {
		return 0, 0, 0, false
	}
	w := float32(max.X - min.X)
	h := float32(max.Y - min.Y)
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	scaleX := tc.maxWidth / w
	scaleY := tc.maxHeight / h
	scale = scaleX
	if scaleY < scale {
		scale = scaleY
	}
	offX = -float32(min.X) * scale
	offY = -float32(min.Y) * scale
	return scale, offX, offY, true
}

func (r *traceCanvasRenderer) rebuild() {
	r.objects = nil

	scale, offX, offY, ok := r.tc.sceneTransform()
	if !ok {
		empty := canvas.NewText("Nothing to display yet.", color.NRGBA{R: 120, G: 120, B: 120, A: 255})
		empty.TextSize = 12
		r.objects = append(r.objects, empty)
		return
	}

	toX := func(x float64) float32 { return float32(x)*scale + offX }
	toY := func(y float64) float32 { return float32(y)*scale + offY }

	// Background
	bg := canvas.NewRectangle(color.NRGBA{R: 250, G: 250, B: 245, A: 255})
	bg.Resize(fyne.NewSize(r.tc.maxWidth, r.tc.maxHeight))
	bg.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, bg)

	for _, rect := range r.tc.scene.Rects {
		fill := color.NRGBA{R: 225, G: 225, B: 225, A: 255}
		stroke := color.NRGBA{R: 100, G: 100, B: 100, A: 255}
		if rect.Dimmed {
			fill = color.NRGBA{R: 238, G: 238, B: 238, A: 255}
			stroke = color.NRGBA{R: 170, G: 170, B: 170, A: 255}
		}
		rw := float32(rect.W) * scale
		rh := float32(rect.H) * scale

		body := canvas.NewRectangle(fill)
		body.StrokeColor = stroke
		body.StrokeWidth = 1
		body.Resize(fyne.NewSize(rw, rh))
		body.Move(fyne.NewPos(toX(rect.X), toY(rect.Y)))
		r.objects = append(r.objects, body)

		// Label (only if big enough)
		if rect.Label != "" && rw > 30 && rh > 14 {
			label := canvas.NewText(rect.Label, color.NRGBA{R: 60, G: 60, B: 60, A: 255})
			label.TextSize = 10
			label.Move(fyne.NewPos(toX(rect.X)+3, toY(rect.Y)+2))
			r.objects = append(r.objects, label)
		}
	}

	for _, c := range r.tc.scene.Circles {
		col := color.NRGBA{R: 66, G: 66, B: 66, A: 255}
		if c.Dimmed {
			col = color.NRGBA{R: 150, G: 150, B: 150, A: 255}
		}
		radius := float32(c.R) * scale
		if radius < 2 {
			radius = 2
		}
		circle := canvas.NewCircle(col)
		circle.Resize(fyne.NewSize(radius*2, radius*2))
		circle.Move(fyne.NewPos(toX(c.X)-radius, toY(c.Y)-radius))
		r.objects = append(r.objects, circle)
	}

	netIndex := make(map[string]int)
	for _, line := range r.tc.scene.Lines {
		idx, seen := netIndex[line.Net]
		if !seen {
			idx = len(netIndex)
			netIndex[line.Net] = idx
		}
		col := netColors[idx%len(netColors)]
		if line.Dimmed {
			col.A = 70
		}
		width := float32(2)
		if line.Highlight {
			width = 4
		}
		for i := 1; i < len(line.Points); i++ {
			seg := canvas.NewLine(col)
			seg.StrokeWidth = width
			seg.Position1 = fyne.NewPos(toX(line.Points[i-1].X), toY(line.Points[i-1].Y))
			seg.Position2 = fyne.NewPos(toX(line.Points[i].X), toY(line.Points[i].Y))
			r.objects = append(r.objects, seg)
		}
	}

	// Crossing marks drawn as a small X on top of the traces
	markColor := color.NRGBA{R: 211, G: 47, B: 54, A: 255}
	for _, m := range r.tc.scene.Marks {
		mx, my := toX(m.X), toY(m.Y)
		const arm = float32(4)
		for _, d := range []struct{ x1, y1, x2, y2 float32 }{
			{mx - arm, my - arm, mx + arm, my + arm},
			{mx - arm, my + arm, mx + arm, my - arm},
		} {
			stroke := canvas.NewLine(markColor)
			stroke.StrokeWidth = 2
			stroke.Position1 = fyne.NewPos(d.x1, d.y1)
			stroke.Position2 = fyne.NewPos(d.x2, d.y2)
			r.objects = append(r.objects, stroke)
		}
	}

	for _, t := range r.tc.scene.Texts {
		col := color.NRGBA{R: 100, G: 85, B: 0, A: 255}
		if t.Dimmed {
			col.A = 120
		}
		txt := canvas.NewText(t.S, col)
		txt.TextSize = 9
		txt.Move(fyne.NewPos(toX(t.X), toY(t.Y)-10))
		r.objects = append(r.objects, txt)
	}
}

func (r *traceCanvasRenderer) Layout(size fyne.Size)        {}
func (r *traceCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *traceCanvasRenderer) Destroy()                     {}
func (r *traceCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *traceCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.tc.maxWidth, r.tc.maxHeight)
}
