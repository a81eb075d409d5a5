package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/TraceTidy/internal/model"
	"github.com/piwi3910/TraceTidy/internal/scene"
)

func buildTestScene() scene.Scene {
	return scene.Scene{
		Rects: []scene.RectShape{
			{X: 10, Y: 10, W: 30, H: 20, Label: "U1", Dimmed: true},
		},
		Circles: []scene.CircleShape{
			{X: 40, Y: 15, R: 0.5, Dimmed: true},
		},
		Lines: []scene.Line{
			{Points: []model.Point2D{{X: 40, Y: 15}, {X: 80, Y: 15}}, Net: "VCC", Label: "t1"},
			{Points: []model.Point2D{{X: 40, Y: 25}, {X: 60, Y: 25}, {X: 60, Y: 45}}, Net: "GND", Highlight: true},
		},
		Marks: []scene.Mark{{X: 50, Y: 20}},
		Texts: []scene.Text{{X: 55, Y: 5, S: "VCC"}},
	}
}

func TestSVGGenerator_Generate(t *testing.T) {
	svg := NewSVG().Generate(buildTestScene())

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("expected XML declaration")
	}
	if !strings.Contains(svg, "<svg xmlns") || !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("expected a complete svg element")
	}
	if strings.Count(svg, "<polyline") != 2 {
		t.Errorf("expected 2 polylines, got %d", strings.Count(svg, "<polyline"))
	}
	if !strings.Contains(svg, `points="40.00,15.00 80.00,15.00"`) {
		t.Error("expected straight trace coordinates in output")
	}
	if !strings.Contains(svg, "<circle") {
		t.Error("expected port circle in output")
	}
	if !strings.Contains(svg, ">U1<") {
		t.Error("expected device label in output")
	}
	// One mark rendered as an X path
	if !strings.Contains(svg, `stroke="#d32f2f"`) {
		t.Error("expected crossing mark in output")
	}
}

func TestSVGGenerator_HighlightWidth(t *testing.T) {
	svg := NewSVG().Generate(buildTestScene())

	// The highlighted line is drawn at double stroke width
	if !strings.Contains(svg, `stroke-width="0.80"`) {
		t.Error("expected doubled stroke width for highlighted line")
	}
}

func TestSVGGenerator_EmptyScene(t *testing.T) {
	svg := NewSVG().Generate(scene.Scene{})

	if !strings.Contains(svg, "viewBox") {
		t.Error("expected a valid viewBox even for an empty scene")
	}
	if strings.Contains(svg, "<polyline") {
		t.Error("expected no polylines for an empty scene")
	}
}

func TestSVGGenerator_EscapesNetNames(t *testing.T) {
	sc := scene.Scene{
		Texts: []scene.Text{{X: 0, Y: 0, S: "A<B&C"}},
	}
	svg := NewSVG().Generate(sc)

	if !strings.Contains(svg, "A&lt;B&amp;C") {
		t.Error("expected XML-escaped text content")
	}
	if strings.Contains(svg, ">A<B") {
		t.Error("raw special characters leaked into output")
	}
}

func TestExportSVG_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.svg")

	if err := ExportSVG(path, buildTestScene()); err != nil {
		t.Fatalf("ExportSVG returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("SVG file was not created: %v", err)
	}
	if !strings.Contains(string(data), "</svg>") {
		t.Error("file does not contain a complete SVG document")
	}
}
