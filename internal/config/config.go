package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// versionPattern validates explicit python_version values (major.minor).
var versionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)

// HistoryConfig represents run-history storage configuration
type HistoryConfig struct {
	// Enabled enables recording of runs to the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`
}

// Config represents typerunner configuration options
type Config struct {
	// Checkers are raw checker command strings run on every invocation
	Checkers []string `yaml:"checkers"`

	// PythonVersion is an explicit major.minor target version
	PythonVersion string `yaml:"python_version"`

	// PythonExecutable is an explicit target interpreter path
	PythonExecutable string `yaml:"python_executable"`

	// Venv is an explicit virtual-environment root
	Venv string `yaml:"venv"`

	// InferVenv enables virtual-environment discovery
	InferVenv bool `yaml:"infer_venv"`

	// Constraints are requirements files passed to the launcher
	Constraints []string `yaml:"constraints"`

	// NoUvx runs checkers directly instead of through the launcher
	NoUvx bool `yaml:"no_uvx"`

	// UvxOptions are extra options passed to the launcher, as one string
	UvxOptions string `yaml:"uvx_options"`

	// UvxDelimiter separates checker arguments from launcher arguments
	UvxDelimiter string `yaml:"uvx_delimiter"`

	// FailFast exits on the first failed checker
	FailFast bool `yaml:"fail_fast"`

	// AllowErrors returns exit status 0 regardless of checker status
	AllowErrors bool `yaml:"allow_errors"`

	// History contains run-history storage configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		UvxDelimiter: "--",
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(".typerunner", "history.db"),
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Unmarshal over defaults can clear nested defaults when the section
	// is present but partial; restore them from the raw document.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		historySection, exists := rawMap["history"]
		if !exists || historySection == nil {
			cfg.History = DefaultConfig().History
		} else if historyMap, ok := historySection.(map[string]interface{}); ok {
			if _, exists := historyMap["enabled"]; !exists {
				cfg.History.Enabled = DefaultConfig().History.Enabled
			}
			if _, exists := historyMap["db_path"]; !exists {
				cfg.History.DBPath = DefaultConfig().History.DBPath
			}
		}
		if _, exists := rawMap["uvx_delimiter"]; !exists {
			cfg.UvxDelimiter = DefaultConfig().UvxDelimiter
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .typerunner/config.yaml in the
// specified directory. If the directory or file doesn't exist, returns
// default configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".typerunner", "config.yaml")
	return LoadConfig(configPath)
}

// Validate validates the configuration values.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	if c.PythonVersion != "" && !versionPattern.MatchString(c.PythonVersion) {
		return fmt.Errorf("python_version must be major.minor form, got %q", c.PythonVersion)
	}

	if c.UvxDelimiter == "" {
		return fmt.Errorf("uvx_delimiter cannot be empty")
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}
