// Package pyenv resolves the Python version and executable that every
// checker in a run is pointed at: from explicit flags, from a discovered
// virtual environment, or by introspecting an interpreter on PATH.
package pyenv

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/harrison/typerunner/internal/logger"
)

// Target is the resolved Python target shared by every checker in one run.
// Either field may be intentionally empty: an explicit opt-out leaves the
// corresponding flag unset for all checkers.
type Target struct {
	// Version is the target Python version in major.minor form.
	Version string

	// Executable is the path to the target Python interpreter.
	Executable string
}

// Options are the inputs to one resolution, taken from flags and config.
type Options struct {
	// Version is an explicit major.minor version. Wins over inference.
	Version string

	// Executable is an explicit interpreter path. Wins over the PATH
	// fallback but not over virtual-environment discovery.
	Executable string

	// Venv is an explicit virtual-environment root to take the
	// interpreter from.
	Venv string

	// InferVenv enables virtual-environment discovery via environment
	// variables and the conventional .venv directory.
	InferVenv bool

	// NoVersion suppresses version inference entirely.
	NoVersion bool

	// NoExecutable suppresses the interpreter PATH fallback.
	NoExecutable bool
}

// Resolver computes a Target once per invocation. The zero value is not
// usable; NewResolver wires the real environment, and tests may override
// the probe functions.
type Resolver struct {
	// Getenv reads environment variables during venv discovery.
	Getenv func(string) string

	// LookPath locates executables on PATH.
	LookPath func(string) (string, error)

	// QueryVersion introspects an interpreter for its major.minor version.
	QueryVersion func(executable string) (string, error)

	// WorkDir is the directory probed for a .venv subdirectory.
	// Empty means the process working directory.
	WorkDir string

	// Logger receives discovery and inference notes. Never nil.
	Logger logger.Logger
}

// NewResolver creates a Resolver backed by the real environment.
// If log is nil, messages are discarded.
func NewResolver(log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Resolver{
		Getenv:       os.Getenv,
		LookPath:     exec.LookPath,
		QueryVersion: QueryVersion,
		Logger:       log,
	}
}

// Resolve computes the effective Python target from the given options.
// Executable resolution runs first because the version may be inferred
// from the executable. The returned Target is immutable for the run.
func (r *Resolver) Resolve(opts Options) (Target, error) {
	executable, err := r.resolveExecutable(opts)
	if err != nil {
		return Target{}, err
	}

	version, err := r.resolveVersion(opts, executable)
	if err != nil {
		return Target{}, err
	}

	r.Logger.LogInfo(fmt.Sprintf("python_executable %s", executable))
	r.Logger.LogInfo(fmt.Sprintf("python_version %s", version))

	return Target{Version: version, Executable: executable}, nil
}

// resolveExecutable locates the interpreter. Virtual-environment discovery
// takes precedence over an explicit executable; the PATH fallback applies
// only when nothing else produced a value and inference is not suppressed.
func (r *Resolver) resolveExecutable(opts Options) (string, error) {
	if opts.Venv != "" || opts.InferVenv {
		location := opts.Venv
		if location == "" {
			inferred, err := r.inferVenvLocation()
			if err != nil {
				return "", err
			}
			location = inferred
		}
		return r.venvInterpreter(expandUser(location))
	}

	if opts.Executable != "" {
		return opts.Executable, nil
	}
	if opts.NoExecutable {
		return "", nil
	}
	return r.defaultInterpreter(), nil
}

// resolveVersion determines the major.minor version: explicit value first,
// then introspection of the known executable, then of the default PATH
// interpreter. Suppression leaves inference off entirely.
func (r *Resolver) resolveVersion(opts Options, executable string) (string, error) {
	if opts.Version != "" {
		return opts.Version, nil
	}
	if opts.NoVersion {
		return "", nil
	}

	probe := executable
	if probe == "" {
		probe = r.defaultInterpreter()
	}
	if probe == "" {
		return "", nil
	}

	r.Logger.LogDebug(fmt.Sprintf("Calculate python-version from executable %s", probe))
	version, err := r.QueryVersion(probe)
	if err != nil {
		return "", fmt.Errorf("introspect %s: %w", probe, err)
	}
	return version, nil
}

// defaultInterpreter finds a conventional interpreter on PATH. Empty when
// none exists; an absent executable is a legal outcome.
func (r *Resolver) defaultInterpreter() string {
	for _, name := range []string{"python3", "python"} {
		if path, err := r.LookPath(name); err == nil {
			r.Logger.LogDebug(fmt.Sprintf("Using interpreter %s from PATH", path))
			return path
		}
	}
	return ""
}

// expandUser replaces a leading "~" with the current user's home directory.
func expandUser(path string) string {
	if path == "~" || (len(path) > 1 && path[0] == '~' && path[1] == filepath.Separator) || (len(path) > 1 && path[0] == '~' && path[1] == '/') {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
