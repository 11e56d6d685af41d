package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlayModel shows keyboard shortcuts help
type HelpOverlayModel struct {
	visible bool
	width   int
	height  int
	theme   Theme
	keys    KeyMap
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(theme Theme, keys KeyMap) HelpOverlayModel {
	return HelpOverlayModel{
		theme: theme,
		keys:  keys,
	}
}

// Show makes the help overlay visible
func (m *HelpOverlayModel) Show() {
	m.visible = true
}

// Hide makes the help overlay invisible
func (m *HelpOverlayModel) Hide() {
	m.visible = false
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions
func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	}

	return m, nil
}

// View renders the help overlay
func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder

	titleStyle := m.theme.Renderer.NewStyle().
		Bold(true).
		Foreground(m.theme.Primary).
		MarginBottom(1)
	b.WriteString(titleStyle.Render("Inbox Help"))
	b.WriteString("\n\n")

	sectionStyle := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Secondary)
	keyStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Width(12)
	descStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)

	section := func(name string, rows []struct{ key, desc string }) {
		b.WriteString(sectionStyle.Render(name) + "\n")
		for _, r := range rows {
			b.WriteString("  " + keyStyle.Render(r.key) + descStyle.Render(r.desc) + "\n")
		}
		b.WriteString("\n")
	}

	section("LIST", []struct{ key, desc string }{
		{"j/↓", "Move down"},
		{"k/↑", "Move up"},
		{"/", "Search titles"},
	})

	// Chip bar keys only apply while it has focus
	section("LABEL CHIPS", []struct{ key, desc string }{
		{"h/←", "Previous chip"},
		{"l/→", "Next chip"},
		{"x/⌫", "Remove focused chip"},
		{"c", "Clear label filter"},
		{"click ×", "Remove chip"},
	})

	section("GLOBAL", []struct{ key, desc string }{
		{m.keys.Labels.Help().Key, "Pick labels"},
		{m.keys.ClearLabels.Help().Key, "Clear label filter"},
		{m.keys.FocusToggle.Help().Key, "Switch list / chips"},
		{m.keys.Preview.Help().Key, "Preview issue"},
		{m.keys.CopyQuery.Help().Key, "Copy filter query"},
		{m.keys.Help.Help().Key, "Toggle this help"},
		{m.keys.Quit.Help().Key, "Quit"},
	})

	hintStyle := m.theme.Renderer.NewStyle().Faint(true).Italic(true)
	b.WriteString(hintStyle.Render("[Press any key to close]"))

	boxStyle := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 2)

	box := boxStyle.Render(b.String())
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
