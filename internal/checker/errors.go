package checker

import "errors"

// ErrMalformedCommand indicates a raw checker command string that cannot be
// parsed: a shell-lexical error or an invalid requirement specifier.
var ErrMalformedCommand = errors.New("malformed checker command")

// ErrUnknownChecker indicates a checker identity missing from the flag table.
// Only returned when the Mapper runs in strict mode.
var ErrUnknownChecker = errors.New("unknown checker")
