// Package cli implements the cobra command tree for bvi.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/beads_inbox/pkg/config"
	"github.com/Dicklesworthstone/beads_inbox/pkg/filterdb"
	"github.com/Dicklesworthstone/beads_inbox/pkg/logging"
	"github.com/Dicklesworthstone/beads_inbox/pkg/ui"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// usageError marks err as a usage mistake (exit code 2)
func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Err: fmt.Errorf(format, args...)}
}

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return 1
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "bvi",
		Short: "Beads inbox with removable label filter chips",
		Long: `bvi lists the issues of a beads repository (.beads/issues.jsonl) in a
terminal inbox. Labels picked with L show up as chips above the list; each
chip removes its label from the filter and the clear control drops the
label filter entirely. Filters are saved per project in a SQLite database
and can be edited from scripts with "bvi filters".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			logger := logging.SetupWithWriter(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("logFormat", cfg.LogFormat),
				slog.String("configFile", cfg.ConfigFile),
			)

			return nil
		},
		RunE: runInbox,
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .bvi.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.String("log-file", "", "write logs to this file while the inbox is open")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")
	pf.String("repo", "", "repository root containing .beads/ (default: current directory)")
	pf.String("db", filterdb.DefaultPath, "filter database, relative to --repo unless absolute")
	pf.String("project", "", "project key for saved filters (default: repository directory name)")
	pf.Int("chip-width", ui.DefaultChipNameWidth, "maximum display width of a label name inside a chip")

	// Inbox-only flags.
	f := cmd.Flags()
	f.Bool("watch", true, "reload when issues.jsonl or labels.yaml change")
	f.Duration("debounce", 250*time.Millisecond, "quiet period before a reload")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	cmd.AddCommand(
		newFiltersCommand(),
		newLabelsCommand(),
		newVersionCommand(),
	)

	return cmd
}
