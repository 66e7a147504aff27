package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"portflow/internal/flow"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Archive.Path == "" {
		t.Error("Archive.Path should not be empty")
	}
	if cfg.Watch.Debounce.Duration() != 500*time.Millisecond {
		t.Errorf("Watch.Debounce = %s, want 500ms", cfg.Watch.Debounce.Duration())
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
}

func TestFlowOptions(t *testing.T) {
	// Empty analysis section yields the canonical defaults.
	cfg := DefaultConfig()
	opts := cfg.FlowOptions()
	want := flow.DefaultOptions()

	if opts != want {
		t.Errorf("FlowOptions() = %+v, want defaults %+v", opts, want)
	}

	// Overrides replace only the fields they name.
	dp := 25.0
	sharp := 8
	cfg.Analysis = AnalysisConfig{
		DPRefInH2O: &dp,
		Blend:      "logistic",
		Sharpness:  &sharp,
	}
	opts = cfg.FlowOptions()

	if opts.DPRefInH2O != 25.0 {
		t.Errorf("DPRefInH2O = %g, want 25", opts.DPRefInH2O)
	}
	if opts.Blend != flow.BlendLogistic {
		t.Errorf("Blend = %s, want logistic", opts.Blend)
	}
	if opts.Sharpness != 8 {
		t.Errorf("Sharpness = %d, want 8", opts.Sharpness)
	}
	// Untouched fields keep their defaults
	if opts.QHead != want.QHead || opts.VTarget != want.VTarget {
		t.Errorf("untouched fields changed: %+v", opts)
	}
}

func TestSaveAndLoad(t *testing.T) {
	// Create temp directory
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Create and save config
	cfg := DefaultConfig()
	dp := 25.0
	cfg.Analysis.DPRefInH2O = &dp
	cfg.Analysis.ARef = "throat"
	cfg.Archive.Path = filepath.Join(tmpDir, "bench.db")

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Load config
	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}

	// Verify values
	if loaded.Analysis.DPRefInH2O == nil || *loaded.Analysis.DPRefInH2O != 25.0 {
		t.Error("Analysis.DPRefInH2O should round-trip")
	}
	if loaded.Analysis.ARef != "throat" {
		t.Errorf("Analysis.ARef = %s, want throat", loaded.Analysis.ARef)
	}
	if loaded.Archive.Path != cfg.Archive.Path {
		t.Errorf("Archive.Path = %s, want %s", loaded.Archive.Path, cfg.Archive.Path)
	}
}

func TestLoadRejectsBadEnums(t *testing.T) {
	tmpDir := t.TempDir()

	cases := []struct {
		name string
		body string
	}{
		{"bad blend", "analysis:\n  blend: harshmin\n"},
		{"bad aref", "analysis:\n  a_ref: seat\n"},
		{"bad q_head", "analysis:\n  q_head: median\n"},
		{"bad log level", "logging:\n  level: loud\n"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, _, err := LoadFromPath(path); err == nil {
				t.Error("LoadFromPath() should reject the value")
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "partial.yaml")
	if err := os.WriteFile(path, []byte("analysis:\n  blend: smoothmin\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want defaulted 1", cfg.Version)
	}
	if cfg.Archive.Path == "" {
		t.Error("Archive.Path should be defaulted")
	}
	if cfg.Watch.Debounce == 0 {
		t.Error("Watch.Debounce should be defaulted")
	}
}

func TestFindConfigPath(t *testing.T) {
	// Create temp directory with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Set working directory to temp
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	// Should find config in working directory
	found := FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	// Should prefer explicit env var
	os.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	defer os.Unsetenv(EnvConfigPath)

	// Explicit path doesn't exist, should fall back
	found = FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	// Test YAML marshaling
	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}
