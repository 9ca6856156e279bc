package checker

import (
	"fmt"
	"strings"
)

// Split tokenizes a command string using shell-lexical rules: whitespace
// separates tokens, single quotes preserve everything literally, double
// quotes allow backslash escapes of `"` and `\`, and a bare backslash
// escapes the next character.
// Returns ErrMalformedCommand for unterminated quotes or a trailing escape.
func Split(input string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inToken := false

	runes := []rune(input)
	i := 0
	for i < len(runes) {
		c := runes[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
			i++

		case c == '\\':
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("%w: trailing escape in %q", ErrMalformedCommand, input)
			}
			current.WriteRune(runes[i+1])
			inToken = true
			i += 2

		case c == '\'':
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '\'' {
					end = j
					break
				}
			}
			if end == -1 {
				return nil, fmt.Errorf("%w: unterminated single quote in %q", ErrMalformedCommand, input)
			}
			current.WriteString(string(runes[i+1 : end]))
			inToken = true
			i = end + 1

		case c == '"':
			i++
			closed := false
			for i < len(runes) {
				if runes[i] == '"' {
					closed = true
					i++
					break
				}
				if runes[i] == '\\' && i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '\\') {
					current.WriteRune(runes[i+1])
					i += 2
					continue
				}
				current.WriteRune(runes[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("%w: unterminated double quote in %q", ErrMalformedCommand, input)
			}
			inToken = true

		default:
			current.WriteRune(c)
			inToken = true
			i++
		}
	}

	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}

// Join renders an argv slice as a single shell-safe command line, quoting
// tokens that contain whitespace or shell metacharacters. Used for logging
// the exact command before execution.
func Join(argv []string) string {
	parts := make([]string, 0, len(argv))
	for _, arg := range argv {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " ")
}

func quote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n\r'\"\\$&|;<>()*?[]#~") {
		return arg
	}
	// Single-quote, with embedded single quotes closed, escaped, reopened.
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
