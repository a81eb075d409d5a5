// Package export provides functionality for exporting cleaned schematic
// layouts to various file formats.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/TraceTidy/internal/cleanup"
	"github.com/piwi3910/TraceTidy/internal/model"
)

// netColor represents an RGB color for a rendered trace.
type netColor struct {
	R, G, B int
}

// netColors mirrors the color scheme used in the UI trace canvas widget.
var netColors = []netColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document containing the cleaned schematic layout.
// The layout is rendered on the first page with devices, net labels, and
// traces, followed by a summary page of per-trace statistics. The report is
// optional; without it the summary shows current geometry only.
func ExportPDF(path string, proj model.Project, report *cleanup.Report) error {
	if len(proj.Traces) == 0 {
		return fmt.Errorf("no traces to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, proj)

	pdf.AddPage()
	renderSummaryPage(pdf, proj, report)

	return pdf.OutputFileAndClose(path)
}

// layoutBounds returns the bounding box of everything drawn on the layout
// page: devices, net label boxes, and trace polylines.
func layoutBounds(proj model.Project) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	for _, d := range proj.Problem.Devices {
		grow(d.X, d.Y)
		grow(d.X+d.Width, d.Y+d.Height)
	}
	for _, l := range proj.Labels {
		grow(l.X, l.Y)
		grow(l.X+l.Width, l.Y+l.Height)
	}
	for _, t := range proj.Traces {
		for _, p := range t.Points {
			grow(p.X, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 1, 1
	}
	if maxX-minX < 1e-9 {
		maxX = minX + 1
	}
	if maxY-minY < 1e-9 {
		maxY = minY + 1
	}
	return minX, minY, maxX, maxY
}

// renderLayoutPage draws the schematic layout on the current PDF page.
func renderLayoutPage(pdf *fpdf.Fpdf, proj model.Project) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Schematic: %s", proj.Name)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	stats := model.CalculateLayoutStats(proj.Traces)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	info := fmt.Sprintf("Devices: %d | Traces: %d | Bends: %d | Wire length: %.1f",
		len(proj.Problem.Devices), len(proj.Traces), stats.TotalBends, stats.TotalLength)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, info, "", 0, "L", false, 0, "")

	// Calculate drawing area and scale
	minX, minY, maxX, maxY := layoutBounds(proj)
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scaleX := drawWidth / (maxX - minX)
	scaleY := drawHeight / (maxY - minY)
	scale := math.Min(scaleX, scaleY)

	canvasW := (maxX - minX) * scale
	canvasH := (maxY - minY) * scale

	// Center the drawing horizontally
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	toPage := func(p model.Point2D) (float64, float64) {
		return offsetX + (p.X-minX)*scale, offsetY + (p.Y-minY)*scale
	}

	// Sheet background
	pdf.SetFillColor(250, 250, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Devices
	for _, d := range proj.Problem.Devices {
		dx, dy := toPage(model.Point2D{X: d.X, Y: d.Y})
		dw := d.Width * scale
		dh := d.Height * scale

		pdf.SetFillColor(225, 225, 225)
		pdf.SetDrawColor(60, 60, 60)
		pdf.SetLineWidth(0.3)
		pdf.Rect(dx, dy, dw, dh, "FD")

		if dw > 12 && dh > 6 {
			pdf.SetFont("Helvetica", "B", deviceFontSize(dw, dh))
			pdf.SetTextColor(0, 0, 0)
			labelW := pdf.GetStringWidth(d.Label)
			if labelW < dw-2 {
				pdf.SetXY(dx+(dw-labelW)/2, dy+dh/2-2)
				pdf.CellFormat(labelW, 4, d.Label, "", 0, "C", false, 0, "")
			}
		}

		// Ports
		pdf.SetFillColor(60, 60, 60)
		for _, port := range d.Ports {
			px, py := toPage(model.Point2D{X: port.X, Y: port.Y})
			pdf.Circle(px, py, math.Max(0.6, 0.3*scale), "F")
		}
	}

	// Net label boxes
	for _, l := range proj.Labels {
		lx, ly := toPage(model.Point2D{X: l.X, Y: l.Y})
		lw := l.Width * scale
		lh := l.Height * scale

		pdf.SetFillColor(255, 249, 196)
		pdf.SetDrawColor(180, 160, 60)
		pdf.SetLineWidth(0.2)
		pdf.Rect(lx, ly, lw, lh, "FD")

		if lw > 8 {
			pdf.SetFont("Helvetica", "", 6)
			pdf.SetTextColor(100, 85, 0)
			netW := pdf.GetStringWidth(l.Net)
			if netW < lw-1 {
				pdf.SetXY(lx+(lw-netW)/2, ly+lh/2-1.5)
				pdf.CellFormat(netW, 3, l.Net, "", 0, "C", false, 0, "")
			}
		}
	}

	// Traces, colored per net
	netIdx := netColorIndex(proj.Traces)
	pdf.SetLineWidth(0.4)
	for _, t := range proj.Traces {
		col := netColors[netIdx[t.Net]%len(netColors)]
		pdf.SetDrawColor(col.R, col.G, col.B)
		for i := 0; i < len(t.Points)-1; i++ {
			x1, y1 := toPage(t.Points[i])
			x2, y2 := toPage(t.Points[i+1])
			pdf.Line(x1, y1, x2, y2)
		}
	}

	// Net legend at bottom of page
	drawNetLegend(pdf, proj.Traces, netIdx, offsetY+canvasH+5)
	pdf.SetTextColor(0, 0, 0)
}

// netColorIndex assigns a stable color slot per net, in first-seen order.
func netColorIndex(traces []model.Trace) map[string]int {
	idx := make(map[string]int)
	for _, t := range traces {
		if _, ok := idx[t.Net]; !ok {
			idx[t.Net] = len(idx)
		}
	}
	return idx
}

// drawNetLegend renders a compact legend of nets at the bottom of the layout page.
func drawNetLegend(pdf *fpdf.Fpdf, traces []model.Trace, netIdx map[string]int, startY float64) {
	if len(traces) == 0 {
		return
	}

	// Count traces per net in first-seen order
	order := make([]string, 0, len(netIdx))
	counts := make(map[string]int)
	for _, t := range traces {
		if counts[t.Net] == 0 {
			order = append(order, t.Net)
		}
		counts[t.Net]++
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Nets:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, net := range order {
		col := netColors[netIdx[net]%len(netColors)]
		label := fmt.Sprintf("%s (%d)", net, counts[net])
		labelW := pdf.GetStringWidth(label) + 6

		// Wrap to next line if needed
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		// Color swatch
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		// Label text
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with cleanup statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, proj model.Project, report *cleanup.Report) {
	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Trace Cleanup Summary", "", 0, "L", false, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	after := model.CalculateLayoutStats(proj.Traces)
	before := after
	if report != nil {
		before = report.Before
		after = report.After
	}

	// Overall statistics
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Traces", fmt.Sprintf("%d", len(after.Traces))},
		{"Total Bends", fmt.Sprintf("%d -> %d", before.TotalBends, after.TotalBends)},
		{"Total Wire Length", fmt.Sprintf("%.1f -> %.1f", before.TotalLength, after.TotalLength)},
		{"Worst Trace Bends", fmt.Sprintf("%d -> %d", before.MaxBends, after.MaxBends)},
	}
	if report != nil {
		summaryItems = append(summaryItems,
			struct{ label, value string }{"Solver Steps", fmt.Sprintf("%d", report.Steps)})
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Per-trace breakdown table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Trace Breakdown", "", 0, "L", false, 0, "")
	y += 9

	// Table header
	colWidths := []float64{35, 45, 40, 40, 45}
	headers := []string{"Trace", "Net", "Bends Before", "Bends After", "Length"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	beforeBends := make(map[string]int, len(before.Traces))
	for _, ts := range before.Traces {
		beforeBends[ts.ID] = ts.Bends
	}

	// Table rows
	pdf.SetFont("Helvetica", "", 9)
	for i, ts := range after.Traces {
		if y > pageHeight-marginBottom-20 {
			pdf.AddPage()
			y = marginTop
		}
		xPos = marginLeft
		rowData := []string{
			ts.ID,
			ts.Net,
			fmt.Sprintf("%d", beforeBends[ts.ID]),
			fmt.Sprintf("%d", ts.Bends),
			fmt.Sprintf("%.1f", ts.Length),
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// Convergence warning
	if report != nil && !report.Untangled {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Untangling did not converge; crossings may remain", "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	// Cleanup settings summary
	y += 10
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Cleanup Settings", "", 0, "L", false, 0, "")
	y += 9

	settingsItems := []struct {
		label string
		value string
	}{
		{"Clearance Margin", fmt.Sprintf("%.2f", proj.Settings.PaddingBuffer)},
		{"Untangle Passes", fmt.Sprintf("%d", proj.Settings.UntangleMaxPasses)},
		{"Untangle Nudge", fmt.Sprintf("%.2f", proj.Settings.UntangleNudge)},
		{"Step Budget", fmt.Sprintf("%d", proj.Settings.MaxSteps)},
		{"Merge By Net", fmt.Sprintf("%t", proj.Settings.MergeOutputByNet)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by TraceTidy - Schematic Trace Cleanup", "", 0, "C", false, 0, "")
}

// deviceFontSize returns an appropriate font size based on the rectangle dimensions.
func deviceFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
