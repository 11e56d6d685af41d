package cli

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/beads_inbox/pkg/config"
	"github.com/Dicklesworthstone/beads_inbox/pkg/labels"
	"github.com/Dicklesworthstone/beads_inbox/pkg/logging"
	"github.com/Dicklesworthstone/beads_inbox/pkg/model"
	"github.com/Dicklesworthstone/beads_inbox/pkg/ui"
	"github.com/Dicklesworthstone/beads_inbox/pkg/watcher"
)

// runInbox opens the interactive inbox
func runInbox(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	// The TUI owns the terminal; logs go to a file or nowhere.
	var logger *slog.Logger
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "bvi")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = logging.SetupWithWriter(cfg, f)
	} else {
		logger = logging.Discard()
	}

	ws, err := openWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	defer ws.Close()

	opts := ui.InboxOptions{
		Title:   ws.store.Project(),
		Issues:  ws.issues,
		Palette: ws.palette,
		Store:   ws.store,
		Theme:   ui.DefaultTheme(newRenderer(cfg)),
		Reload: func() ([]model.Issue, labels.Palette, error) {
			return loadRepo(ctx, ws.repo)
		},
		ChipNameWidth: cfg.ChipWidth,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Watch {
		w, err := watcher.New(ws.watchPaths(), cfg.Debounce, logger)
		if err != nil {
			logger.Warn("live reload disabled", slog.String("error", err.Error()))
		} else {
			defer w.Close()
			go w.Run(ctx)
			opts.Changes = w.Changed()
		}
	}

	p := tea.NewProgram(
		ui.NewInboxModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run inbox: %w", err)
	}

	return nil
}

// newRenderer returns the stdout renderer, forced to plain text when
// --no-color is set.
func newRenderer(cfg *config.Config) *lipgloss.Renderer {
	r := lipgloss.DefaultRenderer()
	if cfg.NoColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}
