package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/beads_inbox/pkg/labels"
)

// maxRowLabels caps the label swatches drawn on one row
const maxRowLabels = 3

// IssueDelegate renders one issue per line
type IssueDelegate struct {
	Theme    Theme
	Resolver labels.Resolver
	Now      func() time.Time
}

func (d IssueDelegate) Height() int {
	return 1
}

func (d IssueDelegate) Spacing() int {
	return 0
}

func (d IssueDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d IssueDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(IssueItem)
	if !ok {
		return
	}
	t := d.Theme
	selected := index == m.Index()

	prefix := "  "
	if selected {
		prefix = t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render("▸ ")
	}

	id := t.Renderer.NewStyle().Foreground(t.Secondary).Width(9).Render(TruncateName(i.Issue.ID, 8))

	iconStr, iconColor := t.TypeIcon(string(i.Issue.IssueType))
	typeIcon := t.Renderer.NewStyle().Foreground(iconColor).Width(3).Render(iconStr)

	prio := RenderPriorityBadge(i.Issue.Priority, t) + " "
	status := RenderStatusBadge(string(i.Issue.Status), t) + " "

	// Optional columns on wide terminals
	age := ""
	if m.Width() >= BreakpointMedium {
		now := time.Now
		if d.Now != nil {
			now = d.Now
		}
		age = t.Renderer.NewStyle().Foreground(t.Subtext).Width(5).Align(lipgloss.Right).
			Render(FormatAge(i.Issue.UpdatedAt, now()))
	}

	assignee := ""
	if i.Issue.Assignee != "" && m.Width() >= BreakpointNarrow {
		assignee = " " + t.Renderer.NewStyle().Foreground(t.Subtext).Render("@"+TruncateName(i.Issue.Assignee, 10))
	}

	tags := d.renderLabels(i.Issue.Labels)

	fixed := lipgloss.Width(prefix) + lipgloss.Width(id) + lipgloss.Width(typeIcon) +
		lipgloss.Width(prio) + lipgloss.Width(status) + lipgloss.Width(tags) +
		lipgloss.Width(assignee) + lipgloss.Width(age) + 2
	titleWidth := m.Width() - fixed
	if titleWidth < 10 {
		titleWidth = 10
	}

	titleStyle := t.Base.Width(titleWidth).MaxWidth(titleWidth)
	if selected {
		titleStyle = titleStyle.Foreground(t.Primary).Bold(true)
	}
	title := titleStyle.Render(TruncateName(i.Issue.Title, titleWidth))

	row := prefix + id + typeIcon + prio + status + title + " " + tags + assignee + " " + age
	fmt.Fprint(w, row)
}

// renderLabels draws a swatch per label, resolved through the registry.
// Labels the resolver does not know are drawn with their derived color.
func (d IssueDelegate) renderLabels(names []string) string {
	if len(names) == 0 {
		return ""
	}
	t := d.Theme

	var parts []string
	for n, name := range names {
		if n == maxRowLabels {
			parts = append(parts, t.Renderer.NewStyle().Foreground(t.Subtext).Render(fmt.Sprintf("+%d", len(names)-n)))
			break
		}
		color := labels.ColorFor(name)
		display := name
		if d.Resolver != nil {
			if l, ok := d.Resolver.Resolve(name); ok {
				color = l.Color
				display = l.DisplayName()
			}
		}
		parts = append(parts, RenderSwatch(color, t)+t.Renderer.NewStyle().Foreground(t.Subtext).Render(TruncateName(display, 10)))
	}
	return strings.Join(parts, " ")
}

// FormatAge renders a compact relative age such as "3d" or "5h"
func FormatAge(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	d := now.Sub(ts)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo", int(d.Hours()/(24*30)))
	}
	return fmt.Sprintf("%dy", int(d.Hours()/(24*365)))
}
