package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/beads_inbox/pkg/config"
	"github.com/Dicklesworthstone/beads_inbox/pkg/filterdb"
	"github.com/Dicklesworthstone/beads_inbox/pkg/labels"
	"github.com/Dicklesworthstone/beads_inbox/pkg/loader"
	"github.com/Dicklesworthstone/beads_inbox/pkg/model"
)

// workspace is everything a command needs about one repository: its
// issues, label table and saved filters.
type workspace struct {
	repo     string
	issues   []model.Issue
	palette  labels.Palette
	registry *labels.Registry
	store    *filterdb.DB
}

// openWorkspace loads the repository named by cfg and opens its filter
// database. The caller must Close the result.
func openWorkspace(ctx context.Context, cfg *config.Config) (*workspace, error) {
	repo, err := cfg.RepoPath()
	if err != nil {
		return nil, err
	}

	issues, palette, err := loadRepo(ctx, repo)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.DBPath(repo)
	store, err := filterdb.Open(dbPath, cfg.ProjectKey(repo))
	if err != nil {
		return nil, fmt.Errorf("open filter database %s: %w", dbPath, err)
	}

	ws := &workspace{
		repo:     repo,
		issues:   issues,
		palette:  palette,
		registry: labels.NewRegistry(issues, palette),
		store:    store,
	}

	slog.Debug("workspace opened",
		slog.String("repo", repo),
		slog.String("project", store.Project()),
		slog.Int("issues", len(issues)),
		slog.Int("labels", ws.registry.Len()),
	)

	return ws, nil
}

// loadRepo reads issues.jsonl and the label palette concurrently
func loadRepo(ctx context.Context, repo string) ([]model.Issue, labels.Palette, error) {
	var (
		issues  []model.Issue
		palette labels.Palette
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		issues, err = loader.LoadIssues(repo)
		return err
	})
	g.Go(func() error {
		var err error
		palette, err = labels.LoadPalette(repo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, labels.Palette{}, err
	}

	return issues, palette, nil
}

// watchPaths lists the files whose changes trigger a reload
func (w *workspace) watchPaths() []string {
	return []string{
		loader.IssuesPath(w.repo),
		filepath.Join(w.repo, labels.PaletteFile),
	}
}

func (w *workspace) Close() error {
	return w.store.Close()
}
