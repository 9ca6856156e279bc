package pyenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrEnvironmentNotFound indicates that no virtual environment could be
// discovered from environment variables or the working directory.
var ErrEnvironmentNotFound = errors.New("could not infer virtual environment")

// ErrInterpreterNotFound indicates a virtual environment root that holds
// no interpreter under any known layout.
var ErrInterpreterNotFound = errors.New("no python interpreter in virtual environment")

// venvEnvVars are probed in order; the first one set wins.
var venvEnvVars = []string{"VIRTUAL_ENV", "CONDA_PREFIX"}

// venvDirNames are conventional environment directories probed in the
// working directory when no environment variable is set.
var venvDirNames = []string{".venv"}

// inferVenvLocation discovers a virtual-environment root: environment
// variables first, then conventional directories under the working
// directory. Returned paths are absolute.
func (r *Resolver) inferVenvLocation() (string, error) {
	for _, name := range venvEnvVars {
		if value := r.Getenv(name); value != "" {
			abs, err := filepath.Abs(value)
			if err != nil {
				abs = value
			}
			r.Logger.LogDebug(fmt.Sprintf("Inferred venv location %s from %s", abs, name))
			return abs, nil
		}
	}

	for _, dir := range venvDirNames {
		candidate := filepath.Join(r.workDir(), dir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				abs = candidate
			}
			r.Logger.LogDebug(fmt.Sprintf("Inferred venv location %s", abs))
			return abs, nil
		}
	}

	return "", fmt.Errorf("%w: checked %v and %v", ErrEnvironmentNotFound, venvEnvVars, venvDirNames)
}

// venvInterpreter locates the interpreter inside a virtual-environment
// root, probing the POSIX layout (bin/python) and the Windows layout
// (Scripts/python.exe). The returned path is absolute.
func (r *Resolver) venvInterpreter(location string) (string, error) {
	executable := "python"
	if runtime.GOOS == "windows" {
		executable = "python.exe"
	}

	for _, dir := range []string{"bin", "Scripts"} {
		candidate := filepath.Join(location, dir, executable)
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				abs = candidate
			}
			r.Logger.LogDebug(fmt.Sprintf("Inferred python-executable %s", abs))
			return abs, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrInterpreterNotFound, location)
}

// workDir returns the configured working directory, or the process one.
func (r *Resolver) workDir() string {
	if r.WorkDir != "" {
		return r.WorkDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
