package pyenv

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// versionScript prints the interpreter's major.minor version on stdout.
const versionScript = "import sys; info = sys.version_info; print(f'{info.major}.{info.minor}')"

// versionPattern extracts a major.minor pair from interpreter output.
var versionPattern = regexp.MustCompile(`[0-9]+\.[0-9]+`)

// QueryVersion invokes the given interpreter with a short version-printing
// instruction and parses major.minor from its standard output. This is the
// only place the system reads a child process's stdout.
func QueryVersion(executable string) (string, error) {
	out, err := exec.Command(executable, "-c", versionScript).Output()
	if err != nil {
		return "", fmt.Errorf("run %s: %w", executable, err)
	}

	version := versionPattern.FindString(strings.TrimSpace(string(out)))
	if version == "" {
		return "", fmt.Errorf("unexpected version output from %s: %q", executable, strings.TrimSpace(string(out)))
	}
	return version, nil
}
