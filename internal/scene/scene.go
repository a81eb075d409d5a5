// Package scene defines a small drawable scene graph for inspecting cleanup
// state. The cleanup pipeline produces a Scene; renderers (fyne canvas, PDF,
// SVG) consume it. Building a scene never mutates pipeline state.
package scene

import "github.com/piwi3910/TraceTidy/internal/model"

// Line is a polyline layer entry, one per trace.
type Line struct {
	Points    []model.Point2D
	Net       string
	Label     string
	Dimmed    bool // Background context, rendered faded
	Highlight bool // The trace currently being processed
}

// RectShape is an axis-aligned rectangle (device body, label box).
type RectShape struct {
	X, Y, W, H float64
	Label      string
	Dimmed     bool
}

// CircleShape marks a circular feature (ports).
type CircleShape struct {
	X, Y, R float64
	Dimmed  bool
}

// Mark is a point of interest (crossing under repair, queue head).
type Mark struct {
	X, Y float64
}

// Text is a free-standing text annotation.
type Text struct {
	X, Y   float64
	S      string
	Dimmed bool
}

// Scene holds the drawable layers in draw order: rects, circles, lines,
// marks, then text on top.
type Scene struct {
	Rects   []RectShape
	Circles []CircleShape
	Lines   []Line
	Marks   []Mark
	Texts   []Text
}

// Bounds returns the bounding box of everything in the scene. Returns ok =
// false for an empty scene.
func (s Scene) Bounds() (min, max model.Point2D, ok bool) {
	grow := func(x, y float64) {
		if !ok {
			min = model.Point2D{X: x, Y: y}
			max = min
			ok = true
			return
		}
		if x < min.X {
			min.X = x
		}
		if y < min.Y {
			min.Y = y
		}
		if x > max.X {
			max.X = x
		}
		if y > max.Y {
			max.Y = y
		}
	}
	for _, r := range s.Rects {
		grow(r.X, r.Y)
		grow(r.X+r.W, r.Y+r.H)
	}
	for _, c := range s.Circles {
		grow(c.X-c.R, c.Y-c.R)
		grow(c.X+c.R, c.Y+c.R)
	}
	for _, l := range s.Lines {
		for _, p := range l.Points {
			grow(p.X, p.Y)
		}
	}
	for _, m := range s.Marks {
		grow(m.X, m.Y)
	}
	for _, t := range s.Texts {
		grow(t.X, t.Y)
	}
	return min, max, ok
}
