package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/beads_inbox/pkg/filter"
	"github.com/Dicklesworthstone/beads_inbox/pkg/labels"
	"github.com/Dicklesworthstone/beads_inbox/pkg/model"
)

// FileChangedMsg is sent when the watched issues file changes on disk
type FileChangedMsg struct {
	Path string
}

// IssuesReloadedMsg carries the result of re-reading issues and the palette
type IssuesReloadedMsg struct {
	Issues  []model.Issue
	Palette labels.Palette
	Err     error
}

type clipboardMsg struct {
	text string
	err  error
}

type statusFadeMsg struct{}

// statusFadeDelay is how long a footer notice stays visible
const statusFadeDelay = 2 * time.Second

// ReloadFunc re-reads issues and the label palette from disk
type ReloadFunc func() ([]model.Issue, labels.Palette, error)

// InboxOptions configures NewInboxModel
type InboxOptions struct {
	Title   string
	Issues  []model.Issue
	Palette labels.Palette
	Store   filter.Store
	Theme   Theme
	Keys    *KeyMap

	// Changes delivers paths from the file watcher. Nil disables live reload.
	Changes <-chan string
	Reload  ReloadFunc

	// CopyText defaults to the system clipboard
	CopyText func(string) error

	// PreviewStyle is a glamour standard style name; defaults to "dark"
	PreviewStyle string

	// ChipNameWidth overrides DefaultChipNameWidth when positive
	ChipNameWidth int
}

type focusArea int

const (
	focusList focusArea = iota
	focusChips
)

// InboxModel is the root model: the filtered issue list with the applied
// label chips above it and the picker, help and preview overlays.
type InboxModel struct {
	title    string
	issues   []model.Issue
	registry *labels.Registry

	store        filter.Store
	storeVersion uint64
	filtered     int

	list    list.Model
	chips   AppliedLabelFilterModel
	picker  LabelPickerModel
	help    HelpOverlayModel
	preview viewport.Model

	showPreview  bool
	previewStyle string

	focus  focusArea
	keys   KeyMap
	theme  Theme
	width  int
	height int

	changes  <-chan string
	reload   ReloadFunc
	copyText func(string) error
	status   string
}

// NewInboxModel builds the inbox over opts.Store
func NewInboxModel(opts InboxOptions) InboxModel {
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	copyText := opts.CopyText
	if copyText == nil {
		copyText = clipboard.WriteAll
	}
	previewStyle := opts.PreviewStyle
	if previewStyle == "" {
		previewStyle = "dark"
	}
	store := opts.Store
	if store == nil {
		store = filter.NewMemoryStore()
	}

	registry := labels.NewRegistry(opts.Issues, opts.Palette)

	delegate := IssueDelegate{Theme: opts.Theme, Resolver: registry}
	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()

	m := InboxModel{
		title:        opts.Title,
		issues:       opts.Issues,
		registry:     registry,
		store:        store,
		list:         l,
		chips:        NewAppliedLabelFilterModel(store, registry, opts.Theme),
		picker:       NewLabelPickerModel(registry, store, opts.Theme),
		help:         NewHelpOverlayModel(opts.Theme, keys),
		preview:      viewport.New(0, 0),
		previewStyle: previewStyle,
		keys:         keys,
		theme:        opts.Theme,
		changes:      opts.Changes,
		reload:       opts.Reload,
		copyText:     copyText,
	}
	if opts.ChipNameWidth > 0 {
		m.chips.SetNameWidth(opts.ChipNameWidth)
	}
	m.refilter()
	return m
}

// Init starts listening for file changes when a watcher is attached
func (m InboxModel) Init() tea.Cmd {
	return WatchFileCmd(m.changes)
}

// WatchFileCmd blocks until the watcher reports a change
func WatchFileCmd(changes <-chan string) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-changes
		if !ok {
			return nil
		}
		return FileChangedMsg{Path: path}
	}
}

func reloadCmd(reload ReloadFunc) tea.Cmd {
	if reload == nil {
		return nil
	}
	return func() tea.Msg {
		issues, palette, err := reload()
		return IssuesReloadedMsg{Issues: issues, Palette: palette, Err: err}
	}
}

func copyCmd(copyText func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{text: text, err: copyText(text)}
	}
}

func fadeStatusCmd() tea.Cmd {
	return tea.Tick(statusFadeDelay, func(time.Time) tea.Msg {
		return statusFadeMsg{}
	})
}

// Update implements tea.Model. After every message the store version is
// compared so commits made anywhere are reflected before the next render.
func (m InboxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.syncStore()
	return m, cmd
}

func (m *InboxModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.help.IsVisible() || m.picker.IsVisible() {
			return nil
		}
		var cmd tea.Cmd
		m.chips, cmd = m.chips.Update(msg)
		return cmd

	case LabelFilterChangedMsg:
		m.refilter()
		return nil

	case FileChangedMsg:
		slog.Debug("issues file changed", slog.String("path", msg.Path))
		return tea.Batch(reloadCmd(m.reload), WatchFileCmd(m.changes))

	case IssuesReloadedMsg:
		if msg.Err != nil {
			slog.Error("reload issues", slog.Any("error", msg.Err))
			m.status = "Reload failed: " + msg.Err.Error()
			return fadeStatusCmd()
		}
		m.SetIssues(msg.Issues, msg.Palette)
		m.status = fmt.Sprintf("Reloaded %d issues", len(msg.Issues))
		return fadeStatusCmd()

	case clipboardMsg:
		if msg.err != nil {
			slog.Warn("copy to clipboard", slog.Any("error", msg.err))
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = "Copied " + msg.text
		}
		return fadeStatusCmd()

	case statusFadeMsg:
		m.status = ""
		return nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *InboxModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	if m.help.IsVisible() {
		m.help, cmd = m.help.Update(msg)
		return cmd
	}
	if m.picker.IsVisible() {
		m.picker, cmd = m.picker.Update(msg)
		return cmd
	}
	if m.list.FilterState() == list.Filtering {
		m.list, cmd = m.list.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.SetSize(m.width, m.height)
		m.help.Show()
		return nil

	case key.Matches(msg, m.keys.Labels):
		m.picker.SetSize(m.width, m.height)
		m.picker.Show()
		return nil

	case key.Matches(msg, m.keys.FocusToggle):
		m.toggleFocus()
		return nil

	case key.Matches(msg, m.keys.ClearLabels):
		return m.chips.Clear()

	case key.Matches(msg, m.keys.Preview):
		m.togglePreview()
		return nil

	case key.Matches(msg, m.keys.CopyQuery):
		return copyCmd(m.copyText, filter.Encode(m.store))
	}

	if m.showPreview && msg.String() == "esc" {
		m.togglePreview()
		return nil
	}

	if m.focus == focusChips {
		m.chips, cmd = m.chips.Update(msg)
		return cmd
	}

	prev := m.list.Index()
	m.list, cmd = m.list.Update(msg)
	if m.showPreview && m.list.Index() != prev {
		m.renderPreview()
	}
	return cmd
}

func (m *InboxModel) toggleFocus() {
	if m.focus == focusChips || !m.chips.Visible() {
		m.focus = focusList
		m.chips.Blur()
		return
	}
	m.focus = focusChips
	m.chips.Focus()
}

func (m *InboxModel) togglePreview() {
	m.showPreview = !m.showPreview
	m.resize()
	if m.showPreview {
		m.renderPreview()
	}
}

// syncStore re-derives when the store changed behind the model's back
func (m *InboxModel) syncStore() {
	v, ok := m.store.(filter.Versioned)
	if !ok {
		return
	}
	if v.Version() != m.storeVersion {
		m.refilter()
	}
}

// refilter rebuilds the list from the current store contents
func (m *InboxModel) refilter() {
	if v, ok := m.store.(filter.Versioned); ok {
		m.storeVersion = v.Version()
	}

	matched := filter.Apply(m.issues, m.store)
	items := make([]list.Item, len(matched))
	for i, issue := range matched {
		items[i] = IssueItem{Issue: issue}
	}
	m.list.SetItems(items)
	m.filtered = len(matched)

	if m.focus == focusChips && !m.chips.Visible() {
		m.focus = focusList
		m.chips.Blur()
	}
	m.resize()
	if m.showPreview {
		m.renderPreview()
	}
}

// SetIssues swaps in freshly loaded issues and rebuilds the label table.
// Chips for labels that no longer exist disappear on the next render.
func (m *InboxModel) SetIssues(issues []model.Issue, palette labels.Palette) {
	m.issues = issues
	m.registry = labels.NewRegistry(issues, palette)

	m.chips.SetResolver(m.registry)
	m.picker.SetRegistry(m.registry)
	m.list.SetDelegate(IssueDelegate{Theme: m.theme, Resolver: m.registry})
	m.refilter()
}

// SetStore points every component at a different filter store
func (m *InboxModel) SetStore(store filter.Store) {
	m.store = store
	m.chips.SetStore(store)
	m.picker.SetStore(store)
	m.refilter()
}

func (m *InboxModel) resize() {
	m.chips.SetWidth(m.width)
	m.chips.SetOrigin(0, headerHeight)

	listHeight := m.height - headerHeight - footerHeight - m.chips.Height()
	if listHeight < MinListHeight {
		listHeight = MinListHeight
	}

	listWidth := m.width
	if m.showPreview && m.width >= BreakpointWide {
		listWidth = m.width / 2
		m.preview.Width = m.width - listWidth
	} else {
		m.preview.Width = m.width
	}
	m.preview.Height = listHeight
	m.list.SetSize(listWidth, listHeight)
}

func (m *InboxModel) renderPreview() {
	item, ok := m.list.SelectedItem().(IssueItem)
	if !ok {
		m.preview.SetContent("No issue selected")
		return
	}

	wrap := m.preview.Width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.previewStyle),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		slog.Warn("create markdown renderer", slog.Any("error", err))
		m.preview.SetContent(issueMarkdown(item.Issue, m.registry))
		return
	}
	out, err := r.Render(issueMarkdown(item.Issue, m.registry))
	if err != nil {
		slog.Warn("render issue preview", slog.String("issue", item.Issue.ID), slog.Any("error", err))
		out = issueMarkdown(item.Issue, m.registry)
	}
	m.preview.SetContent(out)
	m.preview.GotoTop()
}

func issueMarkdown(issue model.Issue, reg *labels.Registry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", issue.Title)
	fmt.Fprintf(&b, "`%s` · **%s** · P%d · %s\n\n", issue.ID, issue.Status, issue.Priority, issue.IssueType)
	if issue.Assignee != "" {
		fmt.Fprintf(&b, "Assignee: @%s\n\n", issue.Assignee)
	}
	if len(issue.Labels) > 0 {
		names := make([]string, 0, len(issue.Labels))
		for _, id := range issue.Labels {
			if l, ok := reg.Resolve(id); ok {
				names = append(names, l.DisplayName())
			} else {
				names = append(names, id)
			}
		}
		fmt.Fprintf(&b, "Labels: %s\n\n", strings.Join(names, ", "))
	}
	if issue.Description != "" {
		b.WriteString(issue.Description)
		b.WriteString("\n")
	}
	return b.String()
}

// View implements tea.Model
func (m InboxModel) View() string {
	if m.help.IsVisible() {
		return m.help.View()
	}
	if m.picker.IsVisible() {
		return m.picker.View()
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	if bar := m.chips.View(); bar != "" {
		sections = append(sections, bar)
	}

	body := m.list.View()
	if m.showPreview {
		if m.width >= BreakpointWide {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.preview.View())
		} else {
			body = m.preview.View()
		}
	}
	sections = append(sections, body)
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m InboxModel) renderHeader() string {
	t := m.theme
	title := m.title
	if title == "" {
		title = "Inbox"
	}
	left := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render(title)
	count := t.Renderer.NewStyle().Foreground(t.Subtext).
		Render(fmt.Sprintf("  %d of %d issues", m.filtered, len(m.issues)))

	badge := ""
	if n := filter.ActiveCount(m.store); n > 0 {
		badge = "  " + t.Renderer.NewStyle().Foreground(t.Highlight).Background(t.Primary).
			Padding(0, 1).Render(fmt.Sprintf("%d filter%s", n, plural(n)))
	}
	return left + count + badge
}

func (m InboxModel) renderFooter() string {
	t := m.theme
	if m.status != "" {
		return t.Renderer.NewStyle().Foreground(t.Open).Render(m.status)
	}
	hint := "L labels • tab chips • C clear • p preview • y copy • ? help • q quit"
	if m.focus == focusChips {
		hint = "←/→ move • x remove • c clear • tab back to list"
	}
	return t.Renderer.NewStyle().Foreground(t.Subtext).Render(hint)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// FilteredIssues returns the issues currently listed
func (m InboxModel) FilteredIssues() []model.Issue {
	items := m.list.Items()
	out := make([]model.Issue, 0, len(items))
	for _, it := range items {
		if ii, ok := it.(IssueItem); ok {
			out = append(out, ii.Issue)
		}
	}
	return out
}

// Registry returns the current label table
func (m InboxModel) Registry() *labels.Registry {
	return m.registry
}

// ChipsFocused reports whether the chip bar has keyboard focus
func (m InboxModel) ChipsFocused() bool {
	return m.focus == focusChips
}

// Chips exposes the chip bar for inspection
func (m InboxModel) Chips() AppliedLabelFilterModel {
	return m.chips
}

// PickerVisible reports whether the label picker is open
func (m InboxModel) PickerVisible() bool {
	return m.picker.IsVisible()
}

// Status returns the footer notice, if any
func (m InboxModel) Status() string {
	return m.status
}
