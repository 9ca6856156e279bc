package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Executor spawns argv[0] with the remaining elements as its arguments and
// blocks until completion, returning the process exit code. The dispatcher
// treats it as opaque and never inspects output.
type Executor interface {
	Execute(ctx context.Context, argv []string) (int, error)
}

// ProcessExecutor runs commands as real child processes with inherited
// standard streams.
type ProcessExecutor struct{}

// Execute spawns the command and waits for it. A nonzero child exit code
// is returned as a code, not an error; the error return is reserved for
// failures to spawn or a cancelled context.
func (ProcessExecutor) Execute(ctx context.Context, argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, fmt.Errorf("empty argv")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("spawn %s: %w", argv[0], err)
}
