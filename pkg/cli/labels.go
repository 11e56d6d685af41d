package cli

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/beads_inbox/pkg/filter"
	"github.com/Dicklesworthstone/beads_inbox/pkg/labels"
)

// labelRow is one line of "bvi labels"
type labelRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Issues   int    `json:"issues"`
	Open     int    `json:"open"`
	Closed   int    `json:"closed"`
	Done     int    `json:"done_pct"`
	Selected bool   `json:"selected"`
}

func newLabelsCommand() *cobra.Command {
	var output, sortBy string

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List the labels known to the repository",
		Long: `List every label used on an issue or defined in .beads/labels.yaml,
with issue counts and whether the saved label filter selects it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := strings.ToLower(strings.TrimSpace(output))
			if format != "table" && format != "json" {
				return usageError("invalid --output %q: must be table or json", output)
			}
			if sortBy != "name" && sortBy != "count" {
				return usageError("invalid --sort %q: must be name or count", sortBy)
			}

			return withWorkspace(cmd, func(ws *workspace) error {
				rows := labelRows(ws, sortBy == "count")
				out := cmd.OutOrStdout()

				if format == "json" {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(rows)
				}

				table := tablewriter.NewWriter(out)
				table.SetHeader([]string{"ID", "NAME", "COLOR", "ISSUES", "OPEN", "CLOSED", "DONE", "SELECTED"})
				for _, r := range rows {
					selected := ""
					if r.Selected {
						selected = "yes"
					}
					table.Append([]string{
						r.ID, r.Name, r.Color,
						strconv.Itoa(r.Issues), strconv.Itoa(r.Open), strconv.Itoa(r.Closed),
						strconv.Itoa(r.Done) + "%",
						selected,
					})
				}
				table.Render()

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table or json")
	cmd.Flags().StringVar(&sortBy, "sort", "name", "row order: name or count")

	return cmd
}

// labelRows lists every known label. byCount orders labels by issue count
// (descending), with labels no issue uses last in name order.
func labelRows(ws *workspace, byCount bool) []labelRow {
	stats := labels.ComputeStats(ws.issues)
	sel, _ := ws.store.Selection(filter.KeyLabel)

	all := ws.registry.All()
	if byCount {
		rank := make(map[string]int, len(all))
		for i, id := range stats.Top() {
			rank[id] = i
		}
		sort.SliceStable(all, func(i, j int) bool {
			ri, okI := rank[all[i].ID]
			rj, okJ := rank[all[j].ID]
			if okI != okJ {
				return okI
			}
			return okI && ri < rj
		})
	}

	rows := make([]labelRow, 0, len(all))
	for _, l := range all {
		s := stats.Get(l.ID)
		rows = append(rows, labelRow{
			ID:       l.ID,
			Name:     l.DisplayName(),
			Color:    l.Color,
			Issues:   s.Total,
			Open:     s.Open,
			Closed:   s.Closed,
			Done:     int(math.Round(s.Progress() * 100)),
			Selected: sel.Contains(l.ID),
		})
	}
	return rows
}
