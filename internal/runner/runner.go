// Package runner dispatches checker commands sequentially and folds their
// exit codes according to the configured policy.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/harrison/typerunner/internal/checker"
	"github.com/harrison/typerunner/internal/logger"
	"github.com/harrison/typerunner/internal/pyenv"
)

// Policy controls how per-checker exit codes fold into the aggregate.
type Policy struct {
	// FailFast stops the run and returns on the first nonzero code.
	FailFast bool

	// AllowErrors forces the aggregate exit code to 0. All invocations
	// still occur and are logged unless FailFast triggered early.
	AllowErrors bool

	// DryRun performs parsing and flag computation but skips execution,
	// treating every invocation as exit code 0.
	DryRun bool
}

// Result records one checker invocation, in submission order.
type Result struct {
	// Command is the raw command string as submitted.
	Command string

	// Checker is the parsed checker identity; empty if parsing failed.
	Checker string

	// Argv is the full argument vector that was (or would be) executed.
	Argv []string

	// ExitCode is the recorded code for this invocation. Parse and spawn
	// failures are recorded as 1.
	ExitCode int

	// Duration is the wall-clock time of the invocation.
	Duration time.Duration

	// Err holds the parse or spawn error for this slot, if any.
	Err error
}

// Summary is the outcome of one dispatch across all checkers.
type Summary struct {
	// Results holds one entry per dispatched checker, in order. Checkers
	// skipped by fail-fast do not appear.
	Results []Result

	// ExitCode is the policy-dependent fold: the first nonzero code under
	// fail-fast, the sum of all codes otherwise, forced to 0 by
	// allow-errors.
	ExitCode int
}

// Runner orchestrates the full per-checker pipeline: parse, map flags,
// execute, fold. Construct one per dispatch.
type Runner struct {
	// Executor runs the final argv. Required.
	Executor Executor

	// Logger receives per-invocation messages. Never nil after New.
	Logger logger.Logger

	// Mapper translates identities into Python flags.
	Mapper *checker.Mapper

	// ParseOpts configure command parsing, shared by all checkers.
	ParseOpts checker.ParseOptions
}

// New creates a Runner with the given executor and logger.
// A nil logger discards messages.
func New(executor Executor, log logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Runner{
		Executor: executor,
		Logger:   log,
		Mapper:   &checker.Mapper{},
	}
}

// Run dispatches each raw checker command in submission order against the
// shared Python target, appending extraArgs to every invocation, and folds
// the exit codes per policy. A command that fails to parse contributes
// exit code 1 without affecting checkers already dispatched; discovery of
// the Python target happens before this point, so nothing here is fatal to
// the whole run except context cancellation.
func (r *Runner) Run(ctx context.Context, commands []string, target pyenv.Target, extraArgs []string, policy Policy) (*Summary, error) {
	summary := &Summary{}
	code := 0

	for _, command := range commands {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result := r.runOne(ctx, command, target, extraArgs, policy)
		summary.Results = append(summary.Results, result)

		// Fail-fast returns the triggering code directly; allow-errors
		// only rewrites the fold over a completed run.
		if policy.FailFast && result.ExitCode != 0 {
			summary.ExitCode = result.ExitCode
			return summary, nil
		}
		code += result.ExitCode
	}

	if policy.AllowErrors {
		code = 0
	}
	summary.ExitCode = code
	return summary, nil
}

// runOne executes a single checker command end to end.
func (r *Runner) runOne(ctx context.Context, command string, target pyenv.Target, extraArgs []string, policy Policy) Result {
	result := Result{Command: command}

	plan, err := checker.Parse(command, r.ParseOpts)
	if err != nil {
		r.Logger.LogError(fmt.Sprintf("Skipping checker %q: %v", command, err))
		result.Err = err
		result.ExitCode = 1
		return result
	}
	result.Checker = plan.Identity
	r.Logger.LogInfo(fmt.Sprintf("Checker: %s", plan.Identity))

	flags, err := r.mapper().Flags(plan.Identity, target.Version, target.Executable)
	if err != nil {
		r.Logger.LogError(fmt.Sprintf("Skipping checker %q: %v", command, err))
		result.Err = err
		result.ExitCode = 1
		return result
	}

	argv := make([]string, 0, len(plan.Argv)+len(flags)+len(extraArgs))
	argv = append(argv, plan.Argv...)
	argv = append(argv, flags...)
	argv = append(argv, extraArgs...)
	result.Argv = argv

	r.Logger.LogInfo(fmt.Sprintf("Command: %s", checker.Join(argv)))

	if policy.DryRun {
		return result
	}

	start := time.Now()
	exitCode, err := r.Executor.Execute(ctx, argv)
	result.Duration = time.Since(start)
	r.Logger.LogInfo(fmt.Sprintf("Execution time: %s", result.Duration.Round(time.Millisecond)))

	if err != nil {
		r.Logger.LogError(fmt.Sprintf("Checker %s failed to start: %v", plan.Identity, err))
		result.Err = err
		result.ExitCode = 1
		return result
	}

	result.ExitCode = exitCode
	if exitCode != 0 {
		r.Logger.LogError(fmt.Sprintf("Failed with exit code: %d", exitCode))
	}
	return result
}

func (r *Runner) mapper() *checker.Mapper {
	if r.Mapper == nil {
		return &checker.Mapper{}
	}
	return r.Mapper
}
