// Package checker translates raw checker command strings into launchable
// argument vectors and maps resolved Python targets onto each checker's
// flag vocabulary.
package checker

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultDelimiter separates checker-bound arguments from launcher-bound
// arguments inside one raw command string.
const DefaultDelimiter = "--"

// DefaultLauncher is the program used to run checkers in ephemeral,
// version-pinned environments.
const DefaultLauncher = "uvx"

// subcommandCheckers require a "check" subcommand as their first argument.
var subcommandCheckers = map[string]bool{
	"ty":      true,
	"pyrefly": true,
}

// ParseOptions configures how raw checker commands are parsed.
type ParseOptions struct {
	// NoLauncher treats the command's first token as a checker executable
	// path instead of a requirement specifier for the launcher.
	NoLauncher bool

	// Launcher is the launcher program name. Defaults to DefaultLauncher.
	Launcher string

	// Delimiter splits checker arguments from launcher-only arguments.
	// Defaults to DefaultDelimiter.
	Delimiter string

	// LauncherOptions are tokens inserted directly after the launcher
	// program: pre-split extra options plus one --constraints=<path> flag
	// per constraint file, assembled by the caller.
	LauncherOptions []string
}

// LaunchPlan is the fully resolved invocation for one checker: the stable
// identity used to key the flag table, and the argument vector up to (but
// not including) the Python flags and trailing arguments.
type LaunchPlan struct {
	Identity string
	Argv     []string
}

// Parse splits a raw command string into a checker identity and the argv
// that launches it. Argument order in the result is significant: it must
// reproduce the target checker's CLI grammar exactly.
func Parse(raw string, opts ParseOptions) (*LaunchPlan, error) {
	tokens, err := Split(raw)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrMalformedCommand)
	}

	if opts.NoLauncher {
		return parseDirect(tokens)
	}
	return parseLauncher(tokens, opts)
}

// parseDirect handles commands that run an installed checker directly.
// The first token is a filesystem path; identity is its base name.
func parseDirect(tokens []string) (*LaunchPlan, error) {
	path := expandUser(tokens[0])
	identity := filepath.Base(path)

	// Prefer an on-PATH match, fall back to the expanded path literally.
	resolved := path
	if found, err := exec.LookPath(path); err == nil {
		resolved = found
	}

	args := maybeAddSubcommand(identity, tokens[1:])
	return &LaunchPlan{
		Identity: identity,
		Argv:     append([]string{resolved}, args...),
	}, nil
}

// parseLauncher handles commands run through the launcher. The first token
// is a requirement specifier; remaining tokens are split at the delimiter
// into checker arguments (before) and launcher-only arguments (after).
func parseLauncher(tokens []string, opts ParseOptions) (*LaunchPlan, error) {
	req, err := ParseRequirement(tokens[0])
	if err != nil {
		return nil, err
	}

	launcher := opts.Launcher
	if launcher == "" {
		launcher = DefaultLauncher
	}
	delimiter := opts.Delimiter
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	rest := tokens[1:]
	checkerArgs := rest
	var launcherArgs []string
	for i, tok := range rest {
		if tok == delimiter {
			checkerArgs = rest[:i]
			launcherArgs = rest[i+1:]
			break
		}
	}

	argv := make([]string, 0, 2+len(opts.LauncherOptions)+len(launcherArgs)+len(checkerArgs))
	argv = append(argv, launcher)
	argv = append(argv, opts.LauncherOptions...)
	argv = append(argv, launcherArgs...)
	argv = append(argv, req.Specifier)
	argv = append(argv, maybeAddSubcommand(req.Name, checkerArgs)...)

	return &LaunchPlan{Identity: req.Name, Argv: argv}, nil
}

// maybeAddSubcommand prepends "check" for checkers that require it, unless
// the arguments already contain the token. Idempotent.
func maybeAddSubcommand(identity string, args []string) []string {
	if !subcommandCheckers[identity] {
		return args
	}
	for _, arg := range args {
		if arg == "check" {
			return args
		}
	}
	return append([]string{"check"}, args...)
}

// expandUser replaces a leading "~" with the current user's home directory.
func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
