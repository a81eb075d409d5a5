package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/TraceTidy/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.Theme = "dark"
	presets := []Preset{{Name: "Custom", Settings: model.DefaultSettings()}}

	if err := ExportAllData(path, cfg, presets); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version == "" {
		t.Error("expected version to be set")
	}
	if backup.CreatedAt == "" {
		t.Error("expected created_at to be set")
	}
	if backup.Config.Theme != "dark" {
		t.Errorf("expected theme=dark, got %s", backup.Config.Theme)
	}
	if len(backup.Presets) != 1 || backup.Presets[0].Name != "Custom" {
		t.Errorf("presets not round-tripped: %+v", backup.Presets)
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	if _, err := ImportAllData(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing backup file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte(`{"config":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Error("expected error for backup without version")
	}
}

func TestExportAllDataCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "backup.json")
	if err := ExportAllData(path, model.DefaultAppConfig(), nil); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected backup file to exist: %v", err)
	}
}

func TestImportAllDataNilRecentProjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte(`{"version":"1.0.0","config":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentProjects == nil {
		t.Error("expected RecentProjects to be non-nil")
	}
}
