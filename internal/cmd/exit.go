package cmd

import "fmt"

// ExitError carries a process exit status from a command's RunE back to
// main. The aggregate checker fold is not a boolean, so a plain error
// (always exit 1) would lose information.
type ExitError struct {
	// Code is the process exit status to terminate with.
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
