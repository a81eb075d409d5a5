package cleanup

import "github.com/piwi3910/TraceTidy/internal/scene"

// DebugScene builds a drawable view of the current cleanup state: the input
// problem dimmed in the background, one line per trace with the in-flight
// trace highlighted, and label boxes. Callable at any point between steps.
// While the untangle sub-solver is active its own scene supplies the trace
// layer, so the view never mixes the suspended outer trace set with the
// sub-solver's working copy. Building the scene reads pipeline state and
// changes nothing.
func (p *Pipeline) DebugScene() scene.Scene {
	var s scene.Scene

	for _, d := range p.problem.Devices {
		s.Rects = append(s.Rects, scene.RectShape{
			X: d.X, Y: d.Y, W: d.Width, H: d.Height,
			Label:  d.Label,
			Dimmed: true,
		})
		for _, port := range d.Ports {
			s.Circles = append(s.Circles, scene.CircleShape{X: port.X, Y: port.Y, R: 0.1, Dimmed: true})
		}
	}
	for _, l := range p.labels {
		s.Rects = append(s.Rects, scene.RectShape{
			X: l.X, Y: l.Y, W: l.Width, H: l.Height,
			Label:  l.Net,
			Dimmed: true,
		})
		s.Texts = append(s.Texts, scene.Text{X: l.X, Y: l.Y, S: l.Net, Dimmed: true})
	}

	if p.sub != nil {
		sub := p.sub.DebugScene()
		s.Lines = append(s.Lines, sub.Lines...)
		s.Marks = append(s.Marks, sub.Marks...)
		return s
	}

	for _, t := range p.snapshot() {
		s.Lines = append(s.Lines, scene.Line{
			Points:    t.Points,
			Net:       t.Net,
			Label:     t.ID,
			Highlight: t.ID == p.activeID,
		})
	}
	return s
}
