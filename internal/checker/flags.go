package checker

import "fmt"

// flagNames holds the flag-name templates for one checker class.
// An empty field means the checker has no flag for that value.
type flagNames struct {
	version    string
	executable string
}

// flagTable maps checker identities to their version/executable flag names.
// pyright and basedpyright share the camel-case pyright convention; pylint
// takes neither value and is listed so it never receives flags.
var flagTable = map[string]flagNames{
	"pyright":      {version: "pythonversion", executable: "pythonpath"},
	"basedpyright": {version: "pythonversion", executable: "pythonpath"},
	"ty":           {version: "python-version", executable: "python"},
	"pyrefly":      {version: "python-version", executable: "python-interpreter-path"},
	"mypy":         {version: "python-version", executable: "python-executable"},
	"pylint":       {},
}

// defaultFlagNames is the fallback class for identities not in the table.
// Matches mypy, the historical default.
var defaultFlagNames = flagNames{version: "python-version", executable: "python-executable"}

// Mapper translates a resolved Python target into checker-specific flags.
type Mapper struct {
	// Strict makes identities missing from the flag table an error instead
	// of falling back to the default (mypy-style) flags.
	Strict bool
}

// Flags returns the flags for the given checker identity and resolved
// Python target. An empty version or executable emits no corresponding
// flag; when both are present the version flag always comes first. Each
// flag is a single "--name=value" token.
func (m *Mapper) Flags(identity, version, executable string) ([]string, error) {
	names, ok := flagTable[identity]
	if !ok {
		if m.Strict {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChecker, identity)
		}
		names = defaultFlagNames
	}

	var out []string
	if version != "" && names.version != "" {
		out = append(out, fmt.Sprintf("--%s=%s", names.version, version))
	}
	if executable != "" && names.executable != "" {
		out = append(out, fmt.Sprintf("--%s=%s", names.executable, executable))
	}
	return out, nil
}
