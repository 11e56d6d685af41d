package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired with extended semantic colors
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Base colors
	ColorBgSubtle    = lipgloss.Color("#363949")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	// Primary accent colors
	ColorPrimary   = lipgloss.Color("#BD93F9")
	ColorSecondary = lipgloss.Color("#6272A4")
	ColorDanger    = lipgloss.Color("#FF5555")

	// Status colors
	ColorStatusOpen       = lipgloss.Color("#50FA7B")
	ColorStatusInProgress = lipgloss.Color("#8BE9FD")
	ColorStatusBlocked    = lipgloss.Color("#FF5555")
	ColorStatusClosed     = lipgloss.Color("#6272A4")

	// Priority colors
	ColorPrioCritical = lipgloss.Color("#FF5555")
	ColorPrioHigh     = lipgloss.Color("#FFB86C")
	ColorPrioMedium   = lipgloss.Color("#F1FA8C")
	ColorPrioLow      = lipgloss.Color("#50FA7B")

	// Type colors
	ColorTypeBug     = lipgloss.Color("#FF5555")
	ColorTypeFeature = lipgloss.Color("#FFB86C")
	ColorTypeTask    = lipgloss.Color("#F1FA8C")
	ColorTypeEpic    = lipgloss.Color("#BD93F9")
	ColorTypeChore   = lipgloss.Color("#8BE9FD")
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGES
// ══════════════════════════════════════════════════════════════════════════════

// RenderPriorityBadge returns a styled priority badge
// Priority values: 0=Critical, 1=High, 2=Medium, 3=Low, 4=Backlog
func RenderPriorityBadge(priority int, t Theme) string {
	var fg lipgloss.Color
	var label string

	switch priority {
	case 0:
		fg, label = ColorPrioCritical, "P0"
	case 1:
		fg, label = ColorPrioHigh, "P1"
	case 2:
		fg, label = ColorPrioMedium, "P2"
	case 3:
		fg, label = ColorPrioLow, "P3"
	case 4:
		fg, label = ColorMuted, "P4"
	default:
		fg, label = ColorMuted, "P?"
	}

	return t.Renderer.NewStyle().Foreground(fg).Bold(true).Render(label)
}

// RenderStatusBadge returns a fixed-width styled status badge
func RenderStatusBadge(status string, t Theme) string {
	var label string

	switch status {
	case "open":
		label = "OPEN"
	case "in_progress":
		label = "PROG"
	case "blocked":
		label = "BLKD"
	case "closed":
		label = "DONE"
	default:
		label = "????"
	}

	return t.Renderer.NewStyle().Foreground(t.StatusColor(status)).Render(label)
}

// ══════════════════════════════════════════════════════════════════════════════
// LABEL CHIPS
// ══════════════════════════════════════════════════════════════════════════════

// Chip glyphs
const (
	SwatchGlyph = "●"
	RemoveGlyph = "×"
	Ellipsis    = "…"
)

// RenderSwatch renders the color dot for a label color ("#rrggbb")
func RenderSwatch(color string, t Theme) string {
	return t.Renderer.NewStyle().Foreground(lipgloss.Color(color)).Render(SwatchGlyph)
}

// TruncateName cuts s to at most width display cells, ending in "…" when cut.
// Wide runes (CJK, emoji) count as two cells.
func TruncateName(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// ══════════════════════════════════════════════════════════════════════════════
// METRICS AND DIVIDERS
// ══════════════════════════════════════════════════════════════════════════════

// RenderMiniBar renders a mini horizontal bar for a value between 0 and 1
func RenderMiniBar(value float64, width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}

	var barColor lipgloss.AdaptiveColor
	if value >= 0.5 {
		barColor = t.Open
	} else if value >= 0.25 {
		barColor = t.InProgress
	} else {
		barColor = t.Secondary
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(barColor).Render(bar)
}
