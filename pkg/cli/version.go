package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/beads_inbox/pkg/updater"
	"github.com/Dicklesworthstone/beads_inbox/pkg/version"
)

func newVersionCommand() *cobra.Command {
	var (
		jsonOutput bool
		check      bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display the version, git commit, build date, Go version, and platform.",
		Args:  cobra.NoArgs,
		// version needs no config or repository
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()
			out := cmd.OutOrStdout()

			if jsonOutput {
				j, err := info.JSON()
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(out, j); err != nil {
					return err
				}
			} else if _, err := fmt.Fprintln(out, info.String()); err != nil {
				return err
			}

			if !check {
				return nil
			}

			rel, newer, err := newChecker().CheckForUpdates(cmd.Context(), info.Version)
			if err != nil {
				return fmt.Errorf("check for updates: %w", err)
			}
			if !newer {
				_, err = fmt.Fprintln(cmd.ErrOrStderr(), "bvi is up to date.")
				return err
			}
			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "A newer release is available: %s\n%s\n", rel.TagName, rel.HTMLURL)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output version info as JSON")
	cmd.Flags().BoolVar(&check, "check", false, "ask GitHub whether a newer release exists")

	return cmd
}

// newChecker is replaced in tests
var newChecker = updater.NewChecker
