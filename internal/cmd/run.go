package cmd

import (
	"fmt"
	"time"

	"github.com/harrison/typerunner/internal/checker"
	"github.com/harrison/typerunner/internal/config"
	"github.com/harrison/typerunner/internal/history"
	"github.com/harrison/typerunner/internal/logger"
	"github.com/harrison/typerunner/internal/pyenv"
	"github.com/harrison/typerunner/internal/report"
	"github.com/harrison/typerunner/internal/runner"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] [-- extra args appended to every checker]",
		Short: "Run the configured type checkers",
		Long: `Run each configured checker command against the shared Python target.

A checker command is a string with options to the checker, for example
--check "mypy --strict" runs mypy with --strict. Options after the
delimiter (default "--", see --uvx-delimiter) inside a checker command are
passed to uvx instead. By default checkers run through uvx in ephemeral
environments; --no-uvx runs them from the current environment instead.

The target Python version and interpreter are taken from explicit flags,
a virtual environment (--venv or --infer-venv), or the interpreter found
on PATH, and translated into each checker's own flag names.

Configuration is loaded from .typerunner/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  # Run mypy and pyright against the project .venv
  typerunner run --infer-venv -c mypy -c pyright src/

  # Pin the target version, keep going past failures, sum the exit codes
  typerunner run -c "mypy --strict" -c ty --python-version 3.12 src/

  # Pass uvx options after the delimiter inside one checker command
  typerunner run -c "mypy --strict -- --reinstall" src/

  # Checkers installed in the current environment, no launcher
  typerunner run --no-uvx -c .venv/bin/mypy src/

  # Show the commands without running anything
  typerunner run --dry-run -v -c mypy -c pyrefly src/`,
		RunE: runCommand,
	}

	cmd.Flags().StringArrayP("check", "c", nil, "Checker command to run; can be specified multiple times")
	cmd.Flags().String("python-version", "", "Python version (x.y) to typecheck against")
	cmd.Flags().String("python-executable", "", "Path to the target Python interpreter")
	cmd.Flags().Bool("no-python-version", false, "Do not infer the Python version")
	cmd.Flags().Bool("no-python-executable", false, "Do not infer the Python interpreter")
	cmd.Flags().String("venv", "", "Use the specified virtual environment location")
	cmd.Flags().Bool("infer-venv", false, "Infer the virtual environment location (VIRTUAL_ENV, CONDA_PREFIX, then .venv)")
	cmd.Flags().StringArray("constraints", nil, "Constraints (requirements.txt) file passed to uvx; can be specified multiple times")
	cmd.Flags().CountP("verbose", "v", "Set verbosity level; pass multiple times to up level")
	cmd.Flags().Bool("stdout", false, "Log to stdout instead of stderr")
	cmd.Flags().Bool("allow-errors", false, "Return exit status 0 regardless of checker status")
	cmd.Flags().Bool("fail-fast", false, "Exit on first failed checker instead of running all")
	cmd.Flags().Bool("dry-run", false, "Perform parsing and flag mapping without executing checkers")
	cmd.Flags().Bool("no-uvx", false, "Assume checkers are installed in the current environment")
	cmd.Flags().String("uvx-options", "", "Extra options passed to uvx (escape the first, e.g. \"\\--verbose\")")
	cmd.Flags().String("uvx-delimiter", "", "Delimiter between checker arguments and uvx arguments (default \"--\")")
	cmd.Flags().String("config", "", "Path to config file (default: .typerunner/config.yaml)")
	cmd.Flags().String("report", "", "Write a YAML run report to this path")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	if len(cfg.Checkers) == 0 {
		cmd.Help()
		return &ExitError{Code: 2}
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	logWriter := cmd.ErrOrStderr()
	if toStdout {
		logWriter = cmd.OutOrStdout()
	}
	log := logger.NewConsoleLogger(logWriter, logger.LevelFromVerbosity(verbosity))

	noVersion, _ := cmd.Flags().GetBool("no-python-version")
	noExecutable, _ := cmd.Flags().GetBool("no-python-executable")

	resolver := pyenv.NewResolver(log)
	target, err := resolver.Resolve(pyenv.Options{
		Version:      cfg.PythonVersion,
		Executable:   cfg.PythonExecutable,
		Venv:         cfg.Venv,
		InferVenv:    cfg.InferVenv,
		NoVersion:    noVersion,
		NoExecutable: noExecutable,
	})
	if err != nil {
		return fmt.Errorf("resolve python target: %w", err)
	}

	uvxOptions, err := checker.Split(cfg.UvxOptions)
	if err != nil {
		return fmt.Errorf("parse uvx options: %w", err)
	}
	launcherOptions := uvxOptions
	for _, c := range cfg.Constraints {
		launcherOptions = append(launcherOptions, "--constraints="+c)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")

	disp := runner.New(runner.ProcessExecutor{}, log)
	disp.ParseOpts = checker.ParseOptions{
		NoLauncher:      cfg.NoUvx,
		Delimiter:       cfg.UvxDelimiter,
		LauncherOptions: launcherOptions,
	}

	startedAt := time.Now()
	summary, err := disp.Run(cmd.Context(), cfg.Checkers, target, args, runner.Policy{
		FailFast:    cfg.FailFast,
		AllowErrors: cfg.AllowErrors,
		DryRun:      dryRun,
	})
	if err != nil {
		return err
	}
	duration := time.Since(startedAt)

	runID := report.NewRunID()
	recordHistory(cmd, cfg, log, runID, startedAt, duration, summary, dryRun)
	writeReport(cmd, log, runID, startedAt, duration, target, summary, dryRun)

	if summary.ExitCode != 0 {
		return &ExitError{Code: summary.ExitCode}
	}
	return nil
}

// loadRunConfig loads the config file and overlays changed CLI flags.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("check") {
		cfg.Checkers, _ = flags.GetStringArray("check")
	}
	if flags.Changed("python-version") {
		cfg.PythonVersion, _ = flags.GetString("python-version")
	}
	if flags.Changed("python-executable") {
		cfg.PythonExecutable, _ = flags.GetString("python-executable")
	}
	if flags.Changed("venv") {
		cfg.Venv, _ = flags.GetString("venv")
	}
	if flags.Changed("infer-venv") {
		cfg.InferVenv, _ = flags.GetBool("infer-venv")
	}
	if flags.Changed("constraints") {
		cfg.Constraints, _ = flags.GetStringArray("constraints")
	}
	if flags.Changed("no-uvx") {
		cfg.NoUvx, _ = flags.GetBool("no-uvx")
	}
	if flags.Changed("uvx-options") {
		cfg.UvxOptions, _ = flags.GetString("uvx-options")
	}
	if flags.Changed("uvx-delimiter") {
		cfg.UvxDelimiter, _ = flags.GetString("uvx-delimiter")
	}
	if flags.Changed("fail-fast") {
		cfg.FailFast, _ = flags.GetBool("fail-fast")
	}
	if flags.Changed("allow-errors") {
		cfg.AllowErrors, _ = flags.GetBool("allow-errors")
	}
	if flags.Changed("no-history") {
		cfg.History.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// recordHistory persists the run to the history database. Failures are
// logged as warnings; history is never worth failing a run over.
func recordHistory(cmd *cobra.Command, cfg *config.Config, log logger.Logger, runID string, startedAt time.Time, duration time.Duration, summary *runner.Summary, dryRun bool) {
	if !cfg.History.Enabled {
		return
	}

	store, err := history.Open(cfg.History.DBPath)
	if err != nil {
		log.LogWarn(fmt.Sprintf("History disabled: %v", err))
		return
	}
	defer store.Close()

	run := &history.Run{
		ID:        runID,
		StartedAt: startedAt,
		Duration:  duration,
		ExitCode:  summary.ExitCode,
		DryRun:    dryRun,
	}
	for i, result := range summary.Results {
		run.Invocations = append(run.Invocations, history.Invocation{
			Position: i,
			Checker:  result.Checker,
			Command:  result.Command,
			ExitCode: result.ExitCode,
			Duration: result.Duration,
		})
	}

	if err := store.RecordRun(cmd.Context(), run); err != nil {
		log.LogWarn(fmt.Sprintf("Failed to record run history: %v", err))
	}
}

// writeReport writes the YAML run report when --report is set.
func writeReport(cmd *cobra.Command, log logger.Logger, runID string, startedAt time.Time, duration time.Duration, target pyenv.Target, summary *runner.Summary, dryRun bool) {
	reportPath, _ := cmd.Flags().GetString("report")
	if reportPath == "" {
		return
	}

	rep := &report.Report{
		RunID:            runID,
		StartedAt:        startedAt.UTC(),
		DurationMS:       duration.Milliseconds(),
		PythonVersion:    target.Version,
		PythonExecutable: target.Executable,
		DryRun:           dryRun,
		ExitCode:         summary.ExitCode,
	}
	for _, result := range summary.Results {
		cr := report.CheckerReport{
			Checker:    result.Checker,
			Command:    result.Command,
			ExitCode:   result.ExitCode,
			DurationMS: result.Duration.Milliseconds(),
		}
		if result.Err != nil {
			cr.Error = result.Err.Error()
		}
		rep.Checkers = append(rep.Checkers, cr)
	}

	if err := report.Write(reportPath, rep); err != nil {
		log.LogWarn(fmt.Sprintf("Failed to write report: %v", err))
	}
}
