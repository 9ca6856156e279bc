package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Checkers) != 0 {
		t.Errorf("Checkers = %v, want empty", cfg.Checkers)
	}
	if cfg.UvxDelimiter != "--" {
		t.Errorf("UvxDelimiter = %q, want %q", cfg.UvxDelimiter, "--")
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true")
	}
	if cfg.History.DBPath != filepath.Join(".typerunner", "history.db") {
		t.Errorf("History.DBPath = %q, want default path", cfg.History.DBPath)
	}
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `checkers:
  - "mypy --strict"
  - pyright
python_version: "3.12"
venv: .venv
infer_venv: true
constraints:
  - requirements.txt
uvx_options: "--reinstall"
fail_fast: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if len(cfg.Checkers) != 2 || cfg.Checkers[0] != "mypy --strict" || cfg.Checkers[1] != "pyright" {
		t.Errorf("Checkers = %v, want [mypy --strict, pyright]", cfg.Checkers)
	}
	if cfg.PythonVersion != "3.12" {
		t.Errorf("PythonVersion = %q, want %q", cfg.PythonVersion, "3.12")
	}
	if cfg.Venv != ".venv" {
		t.Errorf("Venv = %q, want %q", cfg.Venv, ".venv")
	}
	if !cfg.InferVenv {
		t.Error("InferVenv = false, want true")
	}
	if len(cfg.Constraints) != 1 || cfg.Constraints[0] != "requirements.txt" {
		t.Errorf("Constraints = %v, want [requirements.txt]", cfg.Constraints)
	}
	if cfg.UvxOptions != "--reinstall" {
		t.Errorf("UvxOptions = %q, want %q", cfg.UvxOptions, "--reinstall")
	}
	if !cfg.FailFast {
		t.Error("FailFast = false, want true")
	}
	// Untouched sections keep their defaults
	if cfg.UvxDelimiter != "--" {
		t.Errorf("UvxDelimiter = %q, want default %q", cfg.UvxDelimiter, "--")
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want default true")
	}
}

// TestLoadConfigFileNotExists tests fallback to defaults when file doesn't exist
func TestLoadConfigFileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() should not error on missing file, got: %v", err)
	}

	if cfg.UvxDelimiter != "--" {
		t.Errorf("UvxDelimiter = %q, want default %q", cfg.UvxDelimiter, "--")
	}
}

// TestLoadConfigMalformedFile tests error on malformed YAML
func TestLoadConfigMalformedFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("checkers: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadConfig(configPath); err == nil {
		t.Error("LoadConfig() should error on malformed YAML")
	}
}

// TestLoadConfigPartialHistorySection tests default merging for a partial
// history section
func TestLoadConfigPartialHistorySection(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `history:
  enabled: false
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.History.DBPath != filepath.Join(".typerunner", "history.db") {
		t.Errorf("History.DBPath = %q, want default preserved", cfg.History.DBPath)
	}
}

// TestLoadConfigFromDir tests loading from the conventional directory layout
func TestLoadConfigFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, ".typerunner")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("python_version: \"3.11\"\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfigFromDir(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfigFromDir() error = %v", err)
	}
	if cfg.PythonVersion != "3.11" {
		t.Errorf("PythonVersion = %q, want %q", cfg.PythonVersion, "3.11")
	}
}

// TestValidate verifies validation of configuration values
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid python version",
			mutate:  func(c *Config) { c.PythonVersion = "3.12" },
			wantErr: false,
		},
		{
			name:    "invalid python version",
			mutate:  func(c *Config) { c.PythonVersion = "three.twelve" },
			wantErr: true,
		},
		{
			name:    "full version string rejected",
			mutate:  func(c *Config) { c.PythonVersion = "3.12.1" },
			wantErr: true,
		},
		{
			name:    "empty delimiter",
			mutate:  func(c *Config) { c.UvxDelimiter = "" },
			wantErr: true,
		},
		{
			name: "history enabled without path",
			mutate: func(c *Config) {
				c.History.Enabled = true
				c.History.DBPath = ""
			},
			wantErr: true,
		},
		{
			name: "history disabled without path is fine",
			mutate: func(c *Config) {
				c.History.Enabled = false
				c.History.DBPath = ""
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
