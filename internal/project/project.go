package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/TraceTidy/internal/model"
)

// Save persists a project to the given path as JSON. If a file already
// exists at the path, a timestamped backup copy is written next to it
// before the file is overwritten.
func Save(path string, proj model.Project) error {
	data, err := json.MarshalIndent(proj, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := backupExisting(path); err != nil {
			return fmt.Errorf("failed to back up existing project: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// Load reads a project from the given path.
func Load(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	var proj model.Project
	if err := json.Unmarshal(data, &proj); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	if proj.Traces == nil {
		proj.Traces = []model.Trace{}
	}
	if proj.Name == "" {
		base := filepath.Base(path)
		proj.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return proj, nil
}

// backupExisting copies the current file to name.20060102-150405.bak
// alongside the original.
func backupExisting(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	stamp := time.Now().Format("20060102-150405")
	backupPath := fmt.Sprintf("%s.%s.bak", path, stamp)
	return os.WriteFile(backupPath, data, 0644)
}
