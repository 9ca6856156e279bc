package cmd

import (
	"fmt"
	"time"

	"github.com/harrison/typerunner/internal/config"
	"github.com/harrison/typerunner/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded checker runs",
		Long: `List recent runs from the history database, newest first, with the
per-checker exit codes recorded for each.

Examples:
  typerunner history
  typerunner history --limit 5
  typerunner history --db /tmp/history.db`,
		RunE: historyCommand,
	}

	cmd.Flags().String("db", "", "Path to the history database (default: from config)")
	cmd.Flags().Int("limit", 20, "Maximum number of runs to list")
	cmd.Flags().String("config", "", "Path to config file (default: .typerunner/config.yaml)")

	return cmd
}

// historyCommand implements the history command logic
func historyCommand(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		configPath, _ := cmd.Flags().GetString("config")
		var cfg *config.Config
		var err error
		if configPath != "" {
			cfg, err = config.LoadConfig(configPath)
		} else {
			cfg, err = config.LoadConfigFromDir(".")
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		dbPath = cfg.History.DBPath
	}

	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	for _, run := range runs {
		status := "ok"
		if run.ExitCode != 0 {
			status = fmt.Sprintf("exit %d", run.ExitCode)
		}
		if run.DryRun {
			status += " (dry-run)"
		}
		fmt.Fprintf(out, "%s  %s  %s  %s\n",
			run.StartedAt.Local().Format(time.DateTime),
			shortID(run.ID),
			run.Duration.Round(time.Millisecond),
			status,
		)
		for _, inv := range run.Invocations {
			fmt.Fprintf(out, "    %-14s exit %d  %s\n", inv.Checker, inv.ExitCode, inv.Command)
		}
	}

	return nil
}

// shortID abbreviates a run UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
