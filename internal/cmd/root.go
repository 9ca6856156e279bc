package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for typerunner
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "typerunner",
		Short: "Uniform front end for Python static type checkers",
		Long: `Typerunner runs Python type checkers (mypy, pyright, basedpyright, ty,
pyrefly, or anything else) behind one command interface.

It translates a shared target Python version and interpreter into each
checker's own flag vocabulary, optionally launches checkers through uvx in
ephemeral version-pinned environments, and folds the exit codes across all
checkers into one process exit status.`,
		Version: Version,
		// Silence usage and cobra's own error printing; main reports
		// errors and exit-status errors must stay silent entirely
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
