package model

import (
	"fmt"
	"testing"
)

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultPaddingBuffer != defaults.PaddingBuffer {
		t.Errorf("PaddingBuffer mismatch: config=%f settings=%f", cfg.DefaultPaddingBuffer, defaults.PaddingBuffer)
	}
	if cfg.DefaultUntangleMaxPasses != defaults.UntangleMaxPasses {
		t.Errorf("UntangleMaxPasses mismatch: config=%d settings=%d", cfg.DefaultUntangleMaxPasses, defaults.UntangleMaxPasses)
	}
	if cfg.DefaultUntangleNudge != defaults.UntangleNudge {
		t.Errorf("UntangleNudge mismatch: config=%f settings=%f", cfg.DefaultUntangleNudge, defaults.UntangleNudge)
	}
	if cfg.DefaultMaxSteps != defaults.MaxSteps {
		t.Errorf("MaxSteps mismatch: config=%d settings=%d", cfg.DefaultMaxSteps, defaults.MaxSteps)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected default theme=system, got %s", cfg.Theme)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil")
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultPaddingBuffer = 0.75
	cfg.DefaultUntangleMaxPasses = 3
	cfg.DefaultUntangleNudge = 0.9
	cfg.DefaultMaxSteps = 500

	var s CleanupSettings
	cfg.ApplyToSettings(&s)

	if s.PaddingBuffer != 0.75 {
		t.Errorf("expected padding 0.75, got %f", s.PaddingBuffer)
	}
	if s.UntangleMaxPasses != 3 {
		t.Errorf("expected 3 passes, got %d", s.UntangleMaxPasses)
	}
	if s.UntangleNudge != 0.9 {
		t.Errorf("expected nudge 0.9, got %f", s.UntangleNudge)
	}
	if s.MaxSteps != 500 {
		t.Errorf("expected 500 max steps, got %d", s.MaxSteps)
	}
}

func TestAddRecentProject(t *testing.T) {
	cfg := DefaultAppConfig()

	cfg.AddRecentProject("/tmp/a.ttidy")
	cfg.AddRecentProject("/tmp/b.ttidy")
	if len(cfg.RecentProjects) != 2 {
		t.Fatalf("expected 2 recents, got %d", len(cfg.RecentProjects))
	}
	if cfg.RecentProjects[0] != "/tmp/b.ttidy" {
		t.Errorf("most recent should be first, got %q", cfg.RecentProjects[0])
	}

	// Re-adding an existing path moves it to the front without duplicating.
	cfg.AddRecentProject("/tmp/a.ttidy")
	if len(cfg.RecentProjects) != 2 {
		t.Fatalf("expected 2 recents after re-add, got %d", len(cfg.RecentProjects))
	}
	if cfg.RecentProjects[0] != "/tmp/a.ttidy" {
		t.Errorf("re-added path should be first, got %q", cfg.RecentProjects[0])
	}
}

func TestAddRecentProjectCapsAtTen(t *testing.T) {
	cfg := DefaultAppConfig()
	for i := 0; i < 12; i++ {
		cfg.AddRecentProject(fmt.Sprintf("/tmp/p%d.ttidy", i))
	}
	if len(cfg.RecentProjects) != 10 {
		t.Fatalf("expected recent list capped at 10, got %d", len(cfg.RecentProjects))
	}
	if cfg.RecentProjects[0] != "/tmp/p11.ttidy" {
		t.Errorf("most recent should be first, got %q", cfg.RecentProjects[0])
	}
}
