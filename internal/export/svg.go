package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/piwi3910/TraceTidy/internal/scene"
)

// SVGGenerator renders a debug scene to an SVG document. The scene graph is
// the same one the UI canvas draws, so exported images match what is on
// screen mid-run.
type SVGGenerator struct {
	StrokeWidth   float64
	DecimalPlaces int
	Padding       float64 // blank margin around the scene bounds
}

func NewSVG() *SVGGenerator {
	return &SVGGenerator{
		StrokeWidth:   0.4,
		DecimalPlaces: 2,
		Padding:       5,
	}
}

// Generate produces the SVG document for a scene.
func (g *SVGGenerator) Generate(sc scene.Scene) string {
	var b strings.Builder

	g.writeHeader(&b, sc)

	for _, r := range sc.Rects {
		g.writeRect(&b, r)
	}
	for _, c := range sc.Circles {
		g.writeCircle(&b, c)
	}
	for i, l := range sc.Lines {
		g.writeLine(&b, l, i)
	}
	for _, m := range sc.Marks {
		g.writeMark(&b, m)
	}
	for _, t := range sc.Texts {
		g.writeText(&b, t)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

// ExportSVG writes the rendered scene to a file.
func ExportSVG(path string, sc scene.Scene) error {
	svg := NewSVG().Generate(sc)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return fmt.Errorf("failed to write SVG file: %w", err)
	}
	return nil
}

func (g *SVGGenerator) writeHeader(b *strings.Builder, sc scene.Scene) {
	min, max, ok := sc.Bounds()
	if !ok {
		min.X, min.Y, max.X, max.Y = 0, 0, 1, 1
	}
	x := min.X - g.Padding
	y := min.Y - g.Padding
	w := max.X - min.X + 2*g.Padding
	h := max.Y - min.Y + 2*g.Padding

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s">`+"\n",
		g.format(x), g.format(y), g.format(w), g.format(h)))
	b.WriteString(fmt.Sprintf(
		`<rect x="%s" y="%s" width="%s" height="%s" fill="#fafaf5"/>`+"\n",
		g.format(x), g.format(y), g.format(w), g.format(h)))
}

func (g *SVGGenerator) writeRect(b *strings.Builder, r scene.RectShape) {
	fill, stroke := "#e1e1e1", "#3c3c3c"
	if r.Dimmed {
		fill, stroke = "#f0f0f0", "#b0b0b0"
	}
	b.WriteString(fmt.Sprintf(
		`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		g.format(r.X), g.format(r.Y), g.format(r.W), g.format(r.H),
		fill, stroke, g.format(g.StrokeWidth)))
	if r.Label != "" {
		b.WriteString(fmt.Sprintf(
			`<text x="%s" y="%s" font-size="3" text-anchor="middle" fill="%s">%s</text>`+"\n",
			g.format(r.X+r.W/2), g.format(r.Y+r.H/2), stroke, escapeText(r.Label)))
	}
}

func (g *SVGGenerator) writeCircle(b *strings.Builder, c scene.CircleShape) {
	fill := "#3c3c3c"
	if c.Dimmed {
		fill = "#b0b0b0"
	}
	b.WriteString(fmt.Sprintf(
		`<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
		g.format(c.X), g.format(c.Y), g.format(c.R), fill))
}

// lineColors matches the net color cycle used by the PDF exporter.
var lineColors = []string{
	"#4caf50", "#2196f3", "#ff9800", "#9c27b0",
	"#00bcd4", "#f44336", "#ffeb3b", "#795548",
}

func (g *SVGGenerator) writeLine(b *strings.Builder, l scene.Line, idx int) {
	if len(l.Points) < 2 {
		return
	}

	stroke := lineColors[idx%len(lineColors)]
	width := g.StrokeWidth
	opacity := 1.0
	switch {
	case l.Highlight:
		width = g.StrokeWidth * 2
	case l.Dimmed:
		opacity = 0.3
	}

	coords := make([]string, 0, len(l.Points))
	for _, p := range l.Points {
		coords = append(coords, g.format(p.X)+","+g.format(p.Y))
	}

	b.WriteString(fmt.Sprintf(
		`<polyline points="%s" fill="none" stroke="%s" stroke-width="%s" stroke-opacity="%s"/>`+"\n",
		strings.Join(coords, " "), stroke, g.format(width), g.format(opacity)))

	if l.Label != "" {
		first := l.Points[0]
		b.WriteString(fmt.Sprintf(
			`<text x="%s" y="%s" font-size="2.5" fill="%s">%s</text>`+"\n",
			g.format(first.X), g.format(first.Y-1), stroke, escapeText(l.Label)))
	}
}

func (g *SVGGenerator) writeMark(b *strings.Builder, m scene.Mark) {
	// Crossing marker: small X
	s := 1.5
	b.WriteString(fmt.Sprintf(
		`<path d="M %s %s L %s %s M %s %s L %s %s" stroke="#d32f2f" stroke-width="%s"/>`+"\n",
		g.format(m.X-s), g.format(m.Y-s), g.format(m.X+s), g.format(m.Y+s),
		g.format(m.X-s), g.format(m.Y+s), g.format(m.X+s), g.format(m.Y-s),
		g.format(g.StrokeWidth)))
}

func (g *SVGGenerator) writeText(b *strings.Builder, t scene.Text) {
	fill := "#645500"
	if t.Dimmed {
		fill = "#b0a880"
	}
	b.WriteString(fmt.Sprintf(
		`<text x="%s" y="%s" font-size="2.5" fill="%s">%s</text>`+"\n",
		g.format(t.X), g.format(t.Y), fill, escapeText(t.S)))
}

// format formats a coordinate with the configured decimal places.
func (g *SVGGenerator) format(v float64) string {
	format := fmt.Sprintf("%%.%df", g.DecimalPlaces)
	return fmt.Sprintf(format, v)
}

// escapeText escapes the XML special characters that can appear in net names.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
