package ui

import (
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/beads_inbox/pkg/filter"
	"github.com/Dicklesworthstone/beads_inbox/pkg/labels"
	"github.com/Dicklesworthstone/beads_inbox/pkg/model"
)

// DefaultChipNameWidth caps the display width of a label name in a chip
const DefaultChipNameWidth = 20

// LabelFilterChangedMsg is emitted after the chip bar commits a new label
// selection. Present is false when the label filter was cleared.
type LabelFilterChangedMsg struct {
	Selection filter.Selection
	Present   bool
}

// Chip is one resolved, removable entry of the applied label filter
type Chip struct {
	ID    string
	Label model.Label
}

// hitZone is a clickable cell range on one content row. x1 is exclusive.
type hitZone struct {
	row   int
	x0    int
	x1    int
	id    string
	clear bool
}

// chipLayout is the derived content of the bar for one render
type chipLayout struct {
	lines []string
	zones []hitZone
	chips []Chip
}

// Container border plus horizontal padding, used to map screen cells to content cells
const (
	chipBarPadX = 2
	chipBarPadY = 1
)

// AppliedLabelFilterModel renders the applied label filter as removable chips.
//
// It holds no copy of the selection: every View and every gesture reads the
// store again, so a commit is visible on the next render and a chip for a
// just-removed label is never drawn.
type AppliedLabelFilterModel struct {
	store    filter.Store
	resolver labels.Resolver
	theme    Theme

	width     int
	nameWidth int
	originX   int
	originY   int

	focused bool
	cursor  int // chip index; len(chips) addresses the clear control
}

// NewAppliedLabelFilterModel creates the chip bar over store and resolver
func NewAppliedLabelFilterModel(store filter.Store, resolver labels.Resolver, theme Theme) AppliedLabelFilterModel {
	return AppliedLabelFilterModel{
		store:     store,
		resolver:  resolver,
		theme:     theme,
		nameWidth: DefaultChipNameWidth,
	}
}

// SetStore swaps the filter store
func (m *AppliedLabelFilterModel) SetStore(store filter.Store) {
	m.store = store
	m.clampCursor()
}

// SetResolver swaps the label table, e.g. after issues were reloaded
func (m *AppliedLabelFilterModel) SetResolver(resolver labels.Resolver) {
	m.resolver = resolver
	m.clampCursor()
}

// SetWidth sets the total width available to the bar, border included.
// Zero means no wrapping.
func (m *AppliedLabelFilterModel) SetWidth(width int) {
	m.width = width
}

// SetNameWidth sets the display width names are truncated to
func (m *AppliedLabelFilterModel) SetNameWidth(width int) {
	if width < 1 {
		width = 1
	}
	m.nameWidth = width
}

// SetOrigin records the screen cell of the bar's top-left corner for mouse hit testing
func (m *AppliedLabelFilterModel) SetOrigin(x, y int) {
	m.originX = x
	m.originY = y
}

// Focus gives the bar keyboard focus
func (m *AppliedLabelFilterModel) Focus() {
	m.focused = true
	m.clampCursor()
}

// Blur removes keyboard focus
func (m *AppliedLabelFilterModel) Blur() {
	m.focused = false
}

// Focused reports whether the bar has keyboard focus
func (m AppliedLabelFilterModel) Focused() bool {
	return m.focused
}

// Cursor returns the focused control index. len(Chips()) is the clear control.
func (m AppliedLabelFilterModel) Cursor() int {
	return m.cursor
}

// selection reads the current label selection from the store
func (m AppliedLabelFilterModel) selection() (filter.Selection, bool) {
	if m.store == nil {
		return nil, false
	}
	return m.store.Selection(filter.KeyLabel)
}

// Visible reports whether the bar renders at all: the label filter is present and non-empty
func (m AppliedLabelFilterModel) Visible() bool {
	sel, ok := m.selection()
	return ok && len(sel) > 0
}

// Chips resolves the current selection, in selection order. Ids the
// resolver does not know are skipped.
func (m AppliedLabelFilterModel) Chips() []Chip {
	sel, ok := m.selection()
	if !ok || len(sel) == 0 {
		return nil
	}

	chips := make([]Chip, 0, len(sel))
	for _, id := range sel {
		if m.resolver == nil {
			break
		}
		l, ok := m.resolver.Resolve(id)
		if !ok {
			slog.Debug("label filter references unknown label", slog.String("label", id))
			continue
		}
		chips = append(chips, Chip{ID: id, Label: l})
	}
	return chips
}

// RemoveChip commits the selection without id. It is a no-op when id is
// not selected, so repeating it changes nothing.
func (m *AppliedLabelFilterModel) RemoveChip(id string) tea.Cmd {
	sel, ok := m.selection()
	if !ok || !sel.Contains(id) {
		return nil
	}

	next := filter.Toggle(sel, id)
	filter.Set(m.store, filter.KeyLabel, next)
	m.clampCursor()

	return func() tea.Msg {
		return LabelFilterChangedMsg{Selection: next, Present: true}
	}
}

// Clear removes the label dimension from the filter set entirely
func (m *AppliedLabelFilterModel) Clear() tea.Cmd {
	if m.store == nil {
		return nil
	}
	filter.Clear(m.store, filter.KeyLabel)
	m.cursor = 0

	return func() tea.Msg {
		return LabelFilterChangedMsg{Present: false}
	}
}

// Update handles chip-bar keys while focused and mouse clicks at any time
func (m AppliedLabelFilterModel) Update(msg tea.Msg) (AppliedLabelFilterModel, tea.Cmd) {
	if !m.Visible() {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg.String())

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		id, isClear, ok := m.HitTest(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		if isClear {
			return m, m.Clear()
		}
		return m, m.RemoveChip(id)
	}

	return m, nil
}

func (m AppliedLabelFilterModel) handleKey(key string) (AppliedLabelFilterModel, tea.Cmd) {
	chips := m.Chips()

	switch key {
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(chips) {
			m.cursor++
		}
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = len(chips)
	case "x", "delete", "backspace", "enter", " ":
		if m.cursor >= len(chips) {
			return m, m.Clear()
		}
		return m, m.RemoveChip(chips[m.cursor].ID)
	case "c":
		return m, m.Clear()
	}
	return m, nil
}

func (m *AppliedLabelFilterModel) clampCursor() {
	n := len(m.Chips())
	if m.cursor > n {
		m.cursor = n
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// HitTest maps a screen cell to the control under it
func (m AppliedLabelFilterModel) HitTest(x, y int) (id string, isClear bool, ok bool) {
	if !m.Visible() {
		return "", false, false
	}
	row := y - m.originY - chipBarPadY
	col := x - m.originX - chipBarPadX

	for _, z := range m.layout().zones {
		if z.row == row && col >= z.x0 && col < z.x1 {
			return z.id, z.clear, true
		}
	}
	return "", false, false
}

// Height returns the number of screen rows View occupies
func (m AppliedLabelFilterModel) Height() int {
	if !m.Visible() {
		return 0
	}
	return len(m.layout().lines) + 2*chipBarPadY
}

// View renders the bar, or nothing at all when the label filter is absent or empty
func (m AppliedLabelFilterModel) View() string {
	if !m.Visible() {
		return ""
	}
	t := m.theme

	borderColor := t.Border
	if m.focused {
		borderColor = t.Primary
	}

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, chipBarPadX-1)

	return box.Render(strings.Join(m.layout().lines, "\n"))
}

// layout renders every piece of the bar and flows it into rows no wider
// than the content width, recording hit zones as it goes.
func (m AppliedLabelFilterModel) layout() chipLayout {
	t := m.theme
	chips := m.Chips()

	contentWidth := 0
	if m.width > 0 {
		contentWidth = m.width - 2*chipBarPadX
		if contentWidth < 1 {
			contentWidth = 1
		}
	}

	type piece struct {
		text      string
		width     int
		zoneStart int // offset of the clickable part within the piece, -1 for none
		zoneEnd   int
		id        string
		clear     bool
	}
	var pieces []piece

	header := t.Renderer.NewStyle().Foreground(t.Subtext).Render("Label")
	pieces = append(pieces, piece{text: header, width: lipgloss.Width(header), zoneStart: -1})

	for i, c := range chips {
		focused := m.focused && i == m.cursor
		text, removeAt := m.renderChip(c, focused)
		w := lipgloss.Width(text)
		pieces = append(pieces, piece{
			text:      text,
			width:     w,
			zoneStart: removeAt,
			zoneEnd:   w,
			id:        c.ID,
		})
	}

	clearStyle := t.Renderer.NewStyle().Foreground(t.Subtext)
	if m.focused && m.cursor >= len(chips) {
		clearStyle = clearStyle.Foreground(ColorDanger).Bold(true).Underline(true)
	}
	clearText := clearStyle.Render(RemoveGlyph + " clear")
	cw := lipgloss.Width(clearText)
	pieces = append(pieces, piece{text: clearText, width: cw, zoneStart: 0, zoneEnd: cw, clear: true})

	var out chipLayout
	out.chips = chips

	var line strings.Builder
	row, x := 0, 0
	for _, p := range pieces {
		gap := 0
		if x > 0 {
			gap = 1
		}
		if contentWidth > 0 && x > 0 && x+gap+p.width > contentWidth {
			out.lines = append(out.lines, line.String())
			line.Reset()
			row++
			x, gap = 0, 0
		}
		if gap > 0 {
			line.WriteString(" ")
			x += gap
		}
		line.WriteString(p.text)
		if p.zoneStart >= 0 {
			out.zones = append(out.zones, hitZone{
				row:   row,
				x0:    x + p.zoneStart,
				x1:    x + p.zoneEnd,
				id:    p.id,
				clear: p.clear,
			})
		}
		x += p.width
	}
	out.lines = append(out.lines, line.String())

	return out
}

// renderChip draws " ● name × " on the chip background and returns the cell
// offset where the removal control starts.
func (m AppliedLabelFilterModel) renderChip(c Chip, focused bool) (string, int) {
	t := m.theme

	bg := t.Renderer.NewStyle().Background(t.ChipBg)
	nameStyle := bg.Foreground(t.Base.GetForeground())
	removeStyle := bg.Foreground(t.Subtext)
	if focused {
		bg = t.Renderer.NewStyle().Background(t.Highlight)
		nameStyle = bg.Foreground(t.Primary).Bold(true)
		removeStyle = bg.Foreground(ColorDanger).Bold(true)
	}

	swatch := bg.Foreground(lipgloss.Color(c.Label.Color)).Render(SwatchGlyph)
	name := nameStyle.Render(TruncateName(c.Label.DisplayName(), m.nameWidth))
	space := bg.Render(" ")

	head := space + swatch + space + name + space
	removeAt := lipgloss.Width(head)
	return head + removeStyle.Render(RemoveGlyph) + space, removeAt
}
