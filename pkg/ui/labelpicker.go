package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/beads_inbox/pkg/filter"
	"github.com/Dicklesworthstone/beads_inbox/pkg/labels"
	"github.com/Dicklesworthstone/beads_inbox/pkg/model"
)

// LabelPickerItem is one row of the picker
type LabelPickerItem struct {
	Label      model.Label
	IssueCount int
}

// LabelPickerModel is the overlay for adding and removing labels from the
// label filter. It stays open across toggles so several labels can be
// picked in one go.
type LabelPickerModel struct {
	// Data
	allItems      []LabelPickerItem
	filteredItems []LabelPickerItem
	maxCount      int

	store filter.Store

	// UI State
	searchInput   textinput.Model
	selectedIndex int
	visible       bool

	// Dimensions
	width  int
	height int
	theme  Theme
}

// NewLabelPickerModel creates a picker over every label the registry knows
func NewLabelPickerModel(reg *labels.Registry, store filter.Store, theme Theme) LabelPickerModel {
	ti := textinput.New()
	ti.Placeholder = "Search labels..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	m := LabelPickerModel{
		searchInput: ti,
		store:       store,
		theme:       theme,
		width:       60,
		height:      20,
	}
	m.SetRegistry(reg)
	return m
}

// SetRegistry replaces the label list, keeping the current search
func (m *LabelPickerModel) SetRegistry(reg *labels.Registry) {
	m.allItems = nil
	m.maxCount = 0
	if reg != nil {
		for _, l := range reg.All() {
			n := reg.Count(l.ID)
			if n > m.maxCount {
				m.maxCount = n
			}
			m.allItems = append(m.allItems, LabelPickerItem{Label: l, IssueCount: n})
		}
	}
	m.filterItems()
}

// SetStore swaps the filter store the picker commits to
func (m *LabelPickerModel) SetStore(store filter.Store) {
	m.store = store
}

// SetSize updates the picker dimensions
func (m *LabelPickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	inputWidth := width - 20
	if inputWidth < 20 {
		inputWidth = 20
	}
	if inputWidth > 50 {
		inputWidth = 50
	}
	m.searchInput.Width = inputWidth
}

// Show opens the picker with an empty search
func (m *LabelPickerModel) Show() {
	m.visible = true
	m.searchInput.SetValue("")
	m.searchInput.Focus()
	m.filterItems()
}

// Hide closes the picker
func (m *LabelPickerModel) Hide() {
	m.visible = false
	m.searchInput.Blur()
}

// IsVisible returns true if the picker is showing
func (m LabelPickerModel) IsVisible() bool {
	return m.visible
}

// Update handles keys while the picker is open. Typed text goes to the
// search field; enter toggles the highlighted label.
func (m LabelPickerModel) Update(msg tea.Msg) (LabelPickerModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.Hide()
		return m, nil
	case "up", "ctrl+p":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
		return m, nil
	case "down", "ctrl+n", "tab":
		if m.selectedIndex < len(m.filteredItems)-1 {
			m.selectedIndex++
		}
		return m, nil
	case "enter":
		return m, m.toggleSelected()
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != before {
		m.filterItems()
	}
	return m, cmd
}

// toggleSelected flips the highlighted label in the label filter
func (m *LabelPickerModel) toggleSelected() tea.Cmd {
	item, ok := m.SelectedItem()
	if !ok || m.store == nil {
		return nil
	}

	sel, _ := m.store.Selection(filter.KeyLabel)
	next := filter.Toggle(sel, item.Label.ID)
	filter.Set(m.store, filter.KeyLabel, next)

	return func() tea.Msg {
		return LabelFilterChangedMsg{Selection: next, Present: true}
	}
}

func (m *LabelPickerModel) filterItems() {
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		m.filteredItems = m.allItems
		m.selectedIndex = 0
		return
	}

	searchStrings := make([]string, len(m.allItems))
	for i, item := range m.allItems {
		searchStrings[i] = item.Label.DisplayName() + " " + item.Label.ID
	}

	matches := fuzzy.Find(query, searchStrings)

	m.filteredItems = make([]LabelPickerItem, 0, len(matches))
	for _, match := range matches {
		m.filteredItems = append(m.filteredItems, m.allItems[match.Index])
	}
	m.selectedIndex = 0
}

// SelectedItem returns the highlighted row
func (m LabelPickerModel) SelectedItem() (LabelPickerItem, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.filteredItems) {
		return LabelPickerItem{}, false
	}
	return m.filteredItems[m.selectedIndex], true
}

// SearchValue returns the current search input value
func (m LabelPickerModel) SearchValue() string {
	return m.searchInput.Value()
}

// ItemCount returns the number of rows matching the search
func (m LabelPickerModel) ItemCount() int {
	return len(m.filteredItems)
}

// View renders the picker centered in its viewport
func (m LabelPickerModel) View() string {
	if !m.visible {
		return ""
	}
	t := m.theme

	boxWidth := 55
	if m.width < 65 {
		boxWidth = m.width - 10
	}
	if boxWidth < 35 {
		boxWidth = 35
	}
	contentWidth := boxWidth - 6

	var selected filter.Selection
	if m.store != nil {
		selected, _ = m.store.Selection(filter.KeyLabel)
	}

	var lines []string

	titleStyle := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	title := "Filter by Label"
	if n := len(selected); n > 0 {
		title += " (" + strconv.Itoa(n) + " selected)"
	}
	lines = append(lines, titleStyle.Render(title))
	lines = append(lines, "")

	inputStyle := t.Renderer.NewStyle().
		Foreground(t.Base.GetForeground()).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1).
		Width(contentWidth - 2)

	searchValue := m.searchInput.Value()
	if searchValue == "" {
		searchValue = t.Renderer.NewStyle().Foreground(t.Subtext).Render(m.searchInput.Placeholder)
	}
	lines = append(lines, inputStyle.Render(searchValue))
	lines = append(lines, "")

	maxVisible := m.height - 12
	if maxVisible < 5 {
		maxVisible = 5
	}
	if maxVisible > 15 {
		maxVisible = 15
	}

	if len(m.filteredItems) == 0 {
		emptyStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
		lines = append(lines, emptyStyle.Render("  No matching labels"))
	} else {
		// Scroll so the highlighted row stays in view
		start := 0
		if m.selectedIndex >= maxVisible {
			start = m.selectedIndex - maxVisible + 1
		}
		end := start + maxVisible
		if end > len(m.filteredItems) {
			end = len(m.filteredItems)
		}

		for i := start; i < end; i++ {
			item := m.filteredItems[i]
			lines = append(lines, m.renderItem(item, i == m.selectedIndex, selected.Contains(item.Label.ID), contentWidth))
		}

		if rest := len(m.filteredItems) - end; rest > 0 {
			moreStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
			lines = append(lines, moreStyle.Render("  ... and "+strconv.Itoa(rest)+" more"))
		}
	}

	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
	lines = append(lines, footerStyle.Render("↑/↓: navigate • enter: toggle • esc: close"))

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		boxStyle.Render(strings.Join(lines, "\n")),
	)
}

func (m LabelPickerModel) renderItem(item LabelPickerItem, isCursor, isSelected bool, maxWidth int) string {
	t := m.theme

	prefix := "  "
	if isCursor {
		prefix = "▸ "
	}
	mark := "  "
	if isSelected {
		mark = t.Renderer.NewStyle().Foreground(t.Open).Bold(true).Render("✓") + " "
	}

	nameStyle := t.Renderer.NewStyle().Foreground(t.Base.GetForeground())
	if isCursor {
		nameStyle = nameStyle.Foreground(t.Primary).Bold(true)
	}

	ratio := 0.0
	if m.maxCount > 0 {
		ratio = float64(item.IssueCount) / float64(m.maxCount)
	}
	count := t.Renderer.NewStyle().Foreground(t.Subtext).Render(strconv.Itoa(item.IssueCount))
	meta := RenderMiniBar(ratio, 6, t) + " " + count
	metaWidth := lipgloss.Width(meta)

	// prefix + mark + swatch + space
	nameWidth := maxWidth - 6 - metaWidth - 1
	if nameWidth < 4 {
		nameWidth = 4
	}
	name := nameStyle.Render(TruncateName(item.Label.DisplayName(), nameWidth))

	left := prefix + mark + RenderSwatch(item.Label.Color, t) + " " + name
	padding := maxWidth - lipgloss.Width(left) - metaWidth
	if padding < 1 {
		padding = 1
	}
	return left + strings.Repeat(" ", padding) + meta
}
