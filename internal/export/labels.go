package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/TraceTidy/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each net label's QR code.
type LabelInfo struct {
	Net        string   `json:"net"`
	TraceCount int      `json:"traces"`
	Bends      int      `json:"bends"`
	Length     float64  `json:"length"`
	MergedFrom []string `json:"merged_from,omitempty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportNetLabels generates a PDF of QR-coded labels, one per net in the
// project. Each label contains the net name, trace statistics, and a QR code
// encoding the net metadata as JSON. Labels are laid out on a standard label
// sheet format (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportNetLabels(path string, proj model.Project) error {
	labels := CollectLabelInfos(proj)
	if len(labels) == 0 {
		return fmt.Errorf("no nets to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		// Add new page when needed
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for net %q: %w", label.Net, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single net label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Draw light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	// Generate QR code PNG bytes
	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Register QR image with a unique name
	imgName := fmt.Sprintf("qr_%s_%d", info.Net, info.TraceCount)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// Place QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text area (left side of label)
	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Net name (bold, larger)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	// Truncate net name if too long
	net := info.Net
	if pdf.GetStringWidth(net) > textW {
		for len(net) > 0 && pdf.GetStringWidth(net+"...") > textW {
			net = net[:len(net)-1]
		}
		net += "..."
	}
	pdf.CellFormat(textW, 4.5, net, "", 1, "L", false, 0, "")

	// Trace statistics
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	stats := fmt.Sprintf("%d traces, %d bends", info.TraceCount, info.Bends)
	pdf.CellFormat(textW, 3.5, stats, "", 1, "L", false, 0, "")

	// Wire length
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Length %.1f", info.Length), "", 1, "L", false, 0, "")

	// Merged-label indicator
	if len(info.MergedFrom) > 0 {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, fmt.Sprintf("Merged: %d nets", len(info.MergedFrom)), "", 0, "L", false, 0, "")
	}

	// Reset text color
	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos aggregates per-net label information from a project
// for use in testing or alternative export formats. Nets appear in
// first-seen trace order.
func CollectLabelInfos(proj model.Project) []LabelInfo {
	var order []string
	byNet := make(map[string]*LabelInfo)

	for _, t := range proj.Traces {
		info, ok := byNet[t.Net]
		if !ok {
			info = &LabelInfo{Net: t.Net}
			byNet[t.Net] = info
			order = append(order, t.Net)
		}
		info.TraceCount++
		info.Bends += model.CountBends(t.Points)
		info.Length += model.PolylineLength(t.Points)
	}

	for key, nets := range proj.MergedNets {
		if info, ok := byNet[key]; ok {
			info.MergedFrom = append([]string(nil), nets...)
		}
	}

	labels := make([]LabelInfo, 0, len(order))
	for _, net := range order {
		labels = append(labels, *byNet[net])
	}
	return labels
}
