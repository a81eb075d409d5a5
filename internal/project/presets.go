package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/TraceTidy/internal/model"
)

// Preset is a named bundle of cleanup settings that can be applied to a
// project in one click.
type Preset struct {
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Settings    model.CleanupSettings `json:"settings"`
	IsBuiltIn   bool                  `json:"-"`
}

// BuiltInPresets returns the presets that ship with the application.
// These cannot be overwritten or deleted.
func BuiltInPresets() []Preset {
	gentle := model.DefaultSettings()
	gentle.UntangleNudge = 0.2
	gentle.UntangleMaxPasses = 4

	aggressive := model.DefaultSettings()
	aggressive.UntangleMaxPasses = 16
	aggressive.UntangleNudge = 0.8
	aggressive.MergeOutputByNet = true

	dense := model.DefaultSettings()
	dense.PaddingBuffer = 0.1

	return []Preset{
		{Name: "Default", Description: "Balanced defaults for most schematics", Settings: model.DefaultSettings(), IsBuiltIn: true},
		{Name: "Gentle", Description: "Small nudges, few passes; preserves hand-tuned layouts", Settings: gentle, IsBuiltIn: true},
		{Name: "Aggressive", Description: "Many untangle passes and net merging for messy imports", Settings: aggressive, IsBuiltIn: true},
		{Name: "Dense Board", Description: "Reduced clearance margin for tightly packed schematics", Settings: dense, IsBuiltIn: true},
	}
}

// DefaultPresetsDir returns the default directory for storing custom presets.
func DefaultPresetsDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(configDir, "tracetidy")
	return dir, nil
}

// DefaultPresetsPath returns the default file path for custom presets.
func DefaultPresetsPath() (string, error) {
	dir, err := DefaultPresetsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "presets.json"), nil
}

// SaveCustomPresets saves custom presets to a JSON file.
func SaveCustomPresets(path string, presets []Preset) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomPresets loads custom presets from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomPresets(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Preset{}, nil
		}
		return nil, err
	}

	var presets []Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, err
	}

	// Ensure loaded presets are not marked as built-in
	for i := range presets {
		presets[i].IsBuiltIn = false
	}
	return presets, nil
}

// SaveCustomPresetsToDefault saves custom presets to the default path.
func SaveCustomPresetsToDefault(presets []Preset) error {
	path, err := DefaultPresetsPath()
	if err != nil {
		return err
	}
	return SaveCustomPresets(path, presets)
}

// LoadCustomPresetsFromDefault loads custom presets from the default path.
func LoadCustomPresetsFromDefault() ([]Preset, error) {
	path, err := DefaultPresetsPath()
	if err != nil {
		return nil, err
	}
	return LoadCustomPresets(path)
}

// ExportPreset exports a single preset to a JSON file (for sharing).
func ExportPreset(path string, preset Preset) error {
	preset.IsBuiltIn = false
	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportPreset imports a single preset from a JSON file.
func ImportPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, err
	}

	var preset Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		return Preset{}, err
	}

	preset.IsBuiltIn = false
	if preset.Name == "" {
		return Preset{}, errors.New("imported preset has no name")
	}
	return preset, nil
}
