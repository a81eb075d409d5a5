package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default cleanup settings applied to new projects
	DefaultPaddingBuffer     float64 `json:"default_padding_buffer"`
	DefaultUntangleMaxPasses int     `json:"default_untangle_max_passes"`
	DefaultUntangleNudge     float64 `json:"default_untangle_nudge"`
	DefaultMaxSteps          int     `json:"default_max_steps"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	Theme          string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultPaddingBuffer:     defaults.PaddingBuffer,
		DefaultUntangleMaxPasses: defaults.UntangleMaxPasses,
		DefaultUntangleNudge:     defaults.UntangleNudge,
		DefaultMaxSteps:          defaults.MaxSteps,
		RecentProjects:           []string{},
		Theme:                    "system",
	}
}

// ApplyToSettings copies the default values from AppConfig into a
// CleanupSettings struct. Used when creating a new project so it inherits the
// user's saved defaults.
func (c AppConfig) ApplyToSettings(s *CleanupSettings) {
	s.PaddingBuffer = c.DefaultPaddingBuffer
	s.UntangleMaxPasses = c.DefaultUntangleMaxPasses
	s.UntangleNudge = c.DefaultUntangleNudge
	s.MaxSteps = c.DefaultMaxSteps
	s.Theme = c.Theme
}

// AddRecentProject inserts a path at the front of the recent projects list,
// de-duplicating and capping the list at ten entries.
func (c *AppConfig) AddRecentProject(path string) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > 10 {
		recent = recent[:10]
	}
	c.RecentProjects = recent
}
