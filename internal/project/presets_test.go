package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltInPresets(t *testing.T) {
	presets := BuiltInPresets()
	if len(presets) == 0 {
		t.Fatal("expected built-in presets")
	}
	names := map[string]bool{}
	for _, p := range presets {
		if !p.IsBuiltIn {
			t.Errorf("preset %q should be marked built-in", p.Name)
		}
		if names[p.Name] {
			t.Errorf("duplicate preset name %q", p.Name)
		}
		names[p.Name] = true
		if p.Settings.UntangleMaxPasses <= 0 {
			t.Errorf("preset %q has invalid pass budget", p.Name)
		}
	}
	if !names["Default"] {
		t.Error("expected a Default preset")
	}
}

func TestSaveAndLoadCustomPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")

	custom := BuiltInPresets()[:2]
	custom[0].Name = "My Preset"
	if err := SaveCustomPresets(path, custom); err != nil {
		t.Fatalf("SaveCustomPresets failed: %v", err)
	}

	loaded, err := LoadCustomPresets(path)
	if err != nil {
		t.Fatalf("LoadCustomPresets failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(loaded))
	}
	if loaded[0].Name != "My Preset" {
		t.Errorf("expected name round-trip, got %q", loaded[0].Name)
	}
	for _, p := range loaded {
		if p.IsBuiltIn {
			t.Errorf("loaded preset %q should not be built-in", p.Name)
		}
	}
}

func TestLoadCustomPresetsNonExistent(t *testing.T) {
	presets, err := LoadCustomPresets(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if len(presets) != 0 {
		t.Errorf("expected empty slice, got %d presets", len(presets))
	}
}

func TestLoadCustomPresetsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCustomPresets(path); err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}

func TestExportAndImportPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.json")

	preset := BuiltInPresets()[0]
	preset.Name = "Shared"
	if err := ExportPreset(path, preset); err != nil {
		t.Fatalf("ExportPreset failed: %v", err)
	}

	imported, err := ImportPreset(path)
	if err != nil {
		t.Fatalf("ImportPreset failed: %v", err)
	}
	if imported.Name != "Shared" {
		t.Errorf("expected name=Shared, got %q", imported.Name)
	}
	if imported.IsBuiltIn {
		t.Error("imported preset should not be built-in")
	}
	if imported.Settings.PaddingBuffer != preset.Settings.PaddingBuffer {
		t.Errorf("settings not round-tripped")
	}
}

func TestImportPresetNoName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unnamed.json")
	if err := os.WriteFile(path, []byte(`{"settings":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportPreset(path); err == nil {
		t.Error("expected error for preset without a name")
	}
}
