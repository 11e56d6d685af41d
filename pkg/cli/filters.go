package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/beads_inbox/pkg/config"
	"github.com/Dicklesworthstone/beads_inbox/pkg/filter"
	"github.com/Dicklesworthstone/beads_inbox/pkg/ui"
)

// defaultTermWidth is used when stdout is not a terminal
const defaultTermWidth = 80

func newFiltersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Inspect and edit the saved inbox filters",
		Long: `Edit the filters the inbox opens with. Changes are written to the filter
database immediately and apply the next time the inbox starts.`,
		Args: cobra.NoArgs,
	}

	cmd.AddCommand(
		newFiltersShowCommand(),
		newFiltersToggleCommand(),
		newFiltersSetCommand(),
		newFiltersClearCommand(),
		newFiltersQueryCommand(),
		newFiltersLoadCommand(),
	)

	return cmd
}

// withWorkspace opens the workspace for the duration of fn
func withWorkspace(cmd *cobra.Command, fn func(ws *workspace) error) error {
	ws, err := openWorkspace(cmd.Context(), config.FromContext(cmd.Context()))
	if err != nil {
		return err
	}
	defer ws.Close()

	return fn(ws)
}

func newFiltersShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the applied label chips, the filter query and the match count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			out := cmd.OutOrStdout()

			return withWorkspace(cmd, func(ws *workspace) error {
				bar := ui.NewAppliedLabelFilterModel(ws.store, ws.registry, ui.DefaultTheme(outputRenderer(out, cfg)))
				bar.SetNameWidth(cfg.ChipWidth)
				bar.SetWidth(terminalWidth(out))

				if bar.Visible() {
					fmt.Fprintln(out, bar.View())
				} else {
					fmt.Fprintln(out, "No label filter applied.")
				}

				if q := filter.Encode(ws.store); q != "" {
					fmt.Fprintf(out, "query: %s\n", q)
				}
				matched := len(filter.Apply(ws.issues, ws.store))
				fmt.Fprintf(out, "%d of %d issues match\n", matched, len(ws.issues))

				return nil
			})
		},
	}
}

func newFiltersToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <label>...",
		Short: "Add each label to the label filter, or remove it if already selected",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ws *workspace) error {
				sel, _ := ws.store.Selection(filter.KeyLabel)
				for _, id := range args {
					warnUnknownLabel(cmd, ws, id)
					sel = filter.Toggle(sel, id)
				}
				if sel == nil {
					sel = filter.Selection{}
				}
				if err := ws.store.Commit(filter.KeyLabel, sel, true); err != nil {
					return fmt.Errorf("save label filter: %w", err)
				}

				return printQuery(cmd, ws)
			})
		},
	}
}

func newFiltersSetCommand() *cobra.Command {
	var empty bool

	cmd := &cobra.Command{
		Use:   "set [label]...",
		Short: "Replace the label filter",
		Long: `Replace the label filter with the given labels. With --empty the label
dimension is kept but selects nothing, which is different from "filters clear".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case empty && len(args) > 0:
				return usageError("--empty takes no labels")
			case !empty && len(args) == 0:
				return usageError("no labels given; use --empty for an empty label filter")
			}

			return withWorkspace(cmd, func(ws *workspace) error {
				sel := filter.Selection{}
				for _, id := range args {
					warnUnknownLabel(cmd, ws, id)
					if !sel.Contains(id) {
						sel = append(sel, id)
					}
				}
				if err := ws.store.Commit(filter.KeyLabel, sel, true); err != nil {
					return fmt.Errorf("save label filter: %w", err)
				}

				return printQuery(cmd, ws)
			})
		},
	}

	cmd.Flags().BoolVar(&empty, "empty", false, "keep the label filter with no labels selected")

	return cmd
}

func newFiltersClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the label filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(cmd, func(ws *workspace) error {
				if err := ws.store.Commit(filter.KeyLabel, nil, false); err != nil {
					return fmt.Errorf("clear label filter: %w", err)
				}
				if !config.FromContext(cmd.Context()).Quiet {
					fmt.Fprintln(cmd.ErrOrStderr(), "Label filter cleared.")
				}
				return nil
			})
		},
	}
}

func newFiltersQueryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "query",
		Short: "Print the active filters as a query string",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(cmd, func(ws *workspace) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), filter.Encode(ws.store))
				return err
			})
		},
	}
}

func newFiltersLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load <query>",
		Short: "Replace every filter with the ones in a query string",
		Long: `Replace the saved filters with a query printed by "filters query" or
copied from the inbox with y. Dimensions missing from the query are removed.`,
		Example: `  bvi filters load 'label=backend,ui&status=open'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := filter.Decode(args[0])
			if err != nil {
				return usageError("invalid query: %v", err)
			}

			return withWorkspace(cmd, func(ws *workspace) error {
				for _, key := range filter.Keys {
					sel, present := values[key]
					if err := ws.store.Commit(key, sel, present); err != nil {
						return fmt.Errorf("save %s filter: %w", key, err)
					}
				}

				return printQuery(cmd, ws)
			})
		},
	}
}

func printQuery(cmd *cobra.Command, ws *workspace) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), filter.Encode(ws.store))
	return err
}

func warnUnknownLabel(cmd *cobra.Command, ws *workspace, id string) {
	if _, ok := ws.registry.Resolve(id); ok {
		return
	}
	if config.FromContext(cmd.Context()).Quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: no issue or palette entry defines label %q\n", id)
}

// outputRenderer renders for w. Anything that is not a color terminal
// gets plain text.
func outputRenderer(w io.Writer, cfg *config.Config) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if cfg.NoColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// terminalWidth returns the width of w when it is a terminal
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultTermWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}
