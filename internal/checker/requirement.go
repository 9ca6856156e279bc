package checker

import (
	"fmt"
	"strings"
)

// Requirement is a parsed dependency-requirement specifier such as
// "mypy", "mypy[faster-cache]" or "pyright>=1.1.390".
// Only the distribution name is interpreted; the full specifier is kept
// verbatim because the launcher receives it unchanged.
type Requirement struct {
	// Name is the bare, lower-cased distribution name.
	Name string

	// Specifier is the original token, including any extras or version
	// constraints.
	Specifier string
}

// ParseRequirement parses a requirement specifier token.
// The name grammar follows the packaging convention: it starts and ends
// with an alphanumeric character and may contain ".", "-" and "_" in
// between. Whatever follows the name must be an extras bracket, a version
// constraint, or a direct reference; anything else is malformed.
func ParseRequirement(token string) (Requirement, error) {
	if token == "" {
		return Requirement{}, fmt.Errorf("%w: empty requirement specifier", ErrMalformedCommand)
	}

	end := 0
	for end < len(token) && isNameRune(token[end]) {
		end++
	}

	name := token[:end]
	if name == "" || !isAlnum(name[0]) || !isAlnum(name[len(name)-1]) {
		return Requirement{}, fmt.Errorf("%w: invalid requirement name in %q", ErrMalformedCommand, token)
	}

	rest := token[end:]
	if rest != "" && !strings.ContainsRune("[(=<>!~;@", rune(rest[0])) {
		return Requirement{}, fmt.Errorf("%w: unexpected %q after requirement name in %q", ErrMalformedCommand, rest, token)
	}
	if strings.HasPrefix(rest, "[") && !strings.Contains(rest, "]") {
		return Requirement{}, fmt.Errorf("%w: unterminated extras in %q", ErrMalformedCommand, token)
	}

	return Requirement{
		Name:      strings.ToLower(name),
		Specifier: token,
	}, nil
}

func isNameRune(c byte) bool {
	return isAlnum(c) || c == '.' || c == '-' || c == '_'
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
