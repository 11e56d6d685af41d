package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme carries the renderer and the semantic colors every view draws with.
// Views take a Theme instead of using package-level styles so tests can
// render through an ASCII renderer.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	ChipBg    lipgloss.AdaptiveColor

	Open       lipgloss.AdaptiveColor
	InProgress lipgloss.AdaptiveColor
	Blocked    lipgloss.AdaptiveColor
	Closed     lipgloss.AdaptiveColor

	Bug     lipgloss.AdaptiveColor
	Feature lipgloss.AdaptiveColor
	Task    lipgloss.AdaptiveColor
	Epic    lipgloss.AdaptiveColor
	Chore   lipgloss.AdaptiveColor

	Base lipgloss.Style
}

// DefaultTheme returns the Dracula-based theme bound to renderer
func DefaultTheme(renderer *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: renderer,

		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: string(ColorPrimary)},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: string(ColorSecondary)},
		Subtext:   lipgloss.AdaptiveColor{Light: "#888888", Dark: string(ColorSubtext)},
		Border:    lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: string(ColorBgHighlight)},
		Highlight: lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: string(ColorBgHighlight)},
		ChipBg:    lipgloss.AdaptiveColor{Light: "#E8E8F0", Dark: string(ColorBgSubtle)},

		Open:       lipgloss.AdaptiveColor{Light: "#00A651", Dark: string(ColorStatusOpen)},
		InProgress: lipgloss.AdaptiveColor{Light: "#0077B6", Dark: string(ColorStatusInProgress)},
		Blocked:    lipgloss.AdaptiveColor{Light: "#D00000", Dark: string(ColorStatusBlocked)},
		Closed:     lipgloss.AdaptiveColor{Light: "#888888", Dark: string(ColorStatusClosed)},

		Bug:     lipgloss.AdaptiveColor{Light: "#D00000", Dark: string(ColorTypeBug)},
		Feature: lipgloss.AdaptiveColor{Light: "#E85D04", Dark: string(ColorTypeFeature)},
		Task:    lipgloss.AdaptiveColor{Light: "#B5A000", Dark: string(ColorTypeTask)},
		Epic:    lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: string(ColorTypeEpic)},
		Chore:   lipgloss.AdaptiveColor{Light: "#0096C7", Dark: string(ColorTypeChore)},
	}
	t.Base = renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: string(ColorText)})
	return t
}

// StatusColor returns the theme color for an issue status
func (t Theme) StatusColor(status string) lipgloss.AdaptiveColor {
	switch status {
	case "open":
		return t.Open
	case "in_progress":
		return t.InProgress
	case "blocked":
		return t.Blocked
	case "closed":
		return t.Closed
	}
	return t.Subtext
}

// TypeIcon returns the glyph and color for an issue type
func (t Theme) TypeIcon(issueType string) (string, lipgloss.AdaptiveColor) {
	switch issueType {
	case "bug":
		return "🐛", t.Bug
	case "feature":
		return "✨", t.Feature
	case "task":
		return "📋", t.Task
	case "epic":
		return "🚀", t.Epic
	case "chore":
		return "🧹", t.Chore
	}
	return "•", t.Subtext
}
