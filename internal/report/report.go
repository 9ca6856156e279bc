// Package report writes a machine-readable summary of one dispatch to a
// YAML file. Writes are guarded by a file lock and a temp-file rename so
// concurrent runs sharing a report path never interleave or truncate it.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// CheckerReport records one checker invocation.
type CheckerReport struct {
	Checker    string `yaml:"checker"`
	Command    string `yaml:"command"`
	ExitCode   int    `yaml:"exit_code"`
	DurationMS int64  `yaml:"duration_ms"`
	Error      string `yaml:"error,omitempty"`
}

// Report is the full summary of one run.
type Report struct {
	RunID            string          `yaml:"run_id"`
	StartedAt        time.Time       `yaml:"started_at"`
	DurationMS       int64           `yaml:"duration_ms"`
	PythonVersion    string          `yaml:"python_version,omitempty"`
	PythonExecutable string          `yaml:"python_executable,omitempty"`
	DryRun           bool            `yaml:"dry_run,omitempty"`
	ExitCode         int             `yaml:"exit_code"`
	Checkers         []CheckerReport `yaml:"checkers"`
}

// NewRunID returns a unique identifier tying report and history rows of
// one dispatch together.
func NewRunID() string {
	return uuid.NewString()
}

// Write serializes the report to path. The write is atomic: data goes to
// a temp file in the same directory and is renamed into place while an
// exclusive lock on <path>.lock is held.
func Write(path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock report file: %w", err)
	}
	defer lock.Unlock()

	tempFile, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync report: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("set report permissions: %w", err)
	}

	// Rename is atomic within one filesystem; readers never see a partial
	// report.
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename report into place: %w", err)
	}
	tempFile = nil

	return nil
}

// Read loads a report back from path. Used by tests and tooling that
// consumes the report.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}
