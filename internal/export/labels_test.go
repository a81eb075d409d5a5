package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/TraceTidy/internal/model"
)

func TestExportNetLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportNetLabels(path, buildTestProject()); err != nil {
		t.Fatalf("ExportNetLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("labels PDF was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("labels PDF seems too small: %d bytes", info.Size())
	}
}

func TestExportNetLabels_EmptyProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportNetLabels(path, model.NewProject()); err == nil {
		t.Fatal("expected error for project with no traces")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	proj := buildTestProject()
	proj.MergedNets = model.MergedNetLabels{
		"VCC": {"VCC_A", "VCC_B"},
	}

	labels := CollectLabelInfos(proj)
	if len(labels) != 3 {
		t.Fatalf("expected 3 net labels, got %d", len(labels))
	}

	// First-seen order: VCC, GND, SIG
	if labels[0].Net != "VCC" || labels[1].Net != "GND" || labels[2].Net != "SIG" {
		t.Errorf("unexpected net order: %s, %s, %s", labels[0].Net, labels[1].Net, labels[2].Net)
	}
	if labels[0].TraceCount != 1 {
		t.Errorf("expected 1 VCC trace, got %d", labels[0].TraceCount)
	}
	if labels[2].Bends != 2 {
		t.Errorf("expected 2 bends on SIG, got %d", labels[2].Bends)
	}
	if labels[0].Length != 40 {
		t.Errorf("expected VCC length 40, got %f", labels[0].Length)
	}
	if len(labels[0].MergedFrom) != 2 {
		t.Errorf("expected VCC merged from 2 nets, got %v", labels[0].MergedFrom)
	}
	if labels[1].MergedFrom != nil {
		t.Errorf("expected no merge info for GND, got %v", labels[1].MergedFrom)
	}
}

func TestLabelInfo_JSONRoundTrip(t *testing.T) {
	info := LabelInfo{
		Net:        "VCC",
		TraceCount: 3,
		Bends:      7,
		Length:     123.5,
		MergedFrom: []string{"VCC_A", "VCC_B"},
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded LabelInfo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Net != info.Net || decoded.TraceCount != info.TraceCount {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
	if decoded.Length != info.Length || len(decoded.MergedFrom) != 2 {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestExportNetLabels_ManyNets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	proj := model.NewProject()
	// More nets than fit on one label page
	for i := 0; i < 35; i++ {
		proj.Traces = append(proj.Traces, model.Trace{
			ID:     fmt.Sprintf("t%d", i),
			Net:    fmt.Sprintf("NET%d", i),
			Points: []model.Point2D{{X: 0, Y: float64(i)}, {X: 10, Y: float64(i)}},
		})
	}

	if err := ExportNetLabels(path, proj); err != nil {
		t.Fatalf("ExportNetLabels returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() < 1000 {
		t.Errorf("labels PDF seems too small for 35 nets: %d bytes", info.Size())
	}
}
