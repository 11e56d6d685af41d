package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/beads_inbox/pkg/filter"
	"github.com/Dicklesworthstone/beads_inbox/pkg/labels"
	"github.com/Dicklesworthstone/beads_inbox/pkg/model"
)

func inboxIssues() []model.Issue {
	return []model.Issue{
		{ID: "bv-1", Title: "Sync engine stalls", Status: model.StatusOpen, IssueType: model.TypeBug,
			Labels: []string{"backend"}, Description: "Investigate the flaky sync worker."},
		{ID: "bv-2", Title: "Chip bar layout", Status: model.StatusInProgress, IssueType: model.TypeFeature,
			Labels: []string{"ui", "frontend"}},
		{ID: "bv-3", Title: "Schema migration", Status: model.StatusOpen, IssueType: model.TypeTask,
			Labels: []string{"backend", "ui"}},
		{ID: "bv-4", Title: "Unlabeled chore", Status: model.StatusClosed, IssueType: model.TypeChore},
	}
}

type copySpy struct {
	texts []string
	err   error
}

func (c *copySpy) copy(text string) error {
	c.texts = append(c.texts, text)
	return c.err
}

func newInbox(t *testing.T, store *filter.MemoryStore) (InboxModel, *copySpy) {
	t.Helper()
	spy := &copySpy{}
	m := NewInboxModel(InboxOptions{
		Title:        "beads",
		Issues:       inboxIssues(),
		Store:        store,
		Theme:        testTheme(),
		CopyText:     spy.copy,
		PreviewStyle: "notty",
	})
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, spy
}

func send(t *testing.T, m InboxModel, msg tea.Msg) InboxModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(InboxModel)
}

func sendCmd(t *testing.T, m InboxModel, msg tea.Msg) (InboxModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(InboxModel), cmd
}

func issueIDs(issues []model.Issue) []string {
	ids := make([]string, len(issues))
	for i, issue := range issues {
		ids[i] = issue.ID
	}
	return ids
}

func TestInbox_UnfilteredShowsEverything(t *testing.T) {
	m, _ := newInbox(t, filter.NewMemoryStore())

	if got := len(m.FilteredIssues()); got != 4 {
		t.Fatalf("Expected 4 issues, got %d", got)
	}
	if strings.Contains(m.View(), RemoveGlyph+" clear") {
		t.Error("Expected no chip bar without a label filter")
	}
	if !strings.Contains(m.View(), "4 of 4 issues") {
		t.Error("Expected issue count in header")
	}
}

func TestInbox_PickerAddsLabelAndFilters(t *testing.T) {
	store := filter.NewMemoryStore()
	m, _ := newInbox(t, store)

	m = send(t, m, keyMsg("L"))
	if !m.PickerVisible() {
		t.Fatal("Expected picker to open on L")
	}

	// First row is "backend"
	m, cmd := sendCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected change command from picker")
	}
	m = send(t, m, runCmd(cmd))

	got := issueIDs(m.FilteredIssues())
	if strings.Join(got, ",") != "bv-1,bv-3" {
		t.Errorf("Expected bv-1,bv-3, got %v", got)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.PickerVisible() {
		t.Fatal("Expected picker closed")
	}
	if !strings.Contains(m.View(), RemoveGlyph+" clear") {
		t.Error("Expected chip bar once a label is selected")
	}
}

func TestInbox_ChipRemovalFromKeyboard(t *testing.T) {
	store := filter.NewMemoryStore()
	store.SetSelection(filter.KeyLabel, filter.Selection{"backend", "frontend"}, true)
	m, _ := newInbox(t, store)

	if got := len(m.FilteredIssues()); got != 3 {
		t.Fatalf("Expected 3 issues matching backend or frontend, got %d", got)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.ChipsFocused() {
		t.Fatal("Expected tab to focus the chip bar")
	}

	m = send(t, m, keyMsg("x"))
	sel, _ := store.Selection(filter.KeyLabel)
	if strings.Join(sel, ",") != "frontend" {
		t.Fatalf("Expected [frontend], got %v", sel)
	}
	got := issueIDs(m.FilteredIssues())
	if strings.Join(got, ",") != "bv-2" {
		t.Errorf("Expected bv-2, got %v", got)
	}

	// Removing the last chip hides the bar and returns focus to the list
	m = send(t, m, keyMsg("x"))
	if m.ChipsFocused() {
		t.Error("Expected focus back on the list once the bar is hidden")
	}
	if len(m.FilteredIssues()) != 4 {
		t.Error("Expected empty label selection to impose no constraint")
	}
	if _, ok := store.Selection(filter.KeyLabel); !ok {
		t.Error("Expected label filter to stay present after removing the last chip")
	}
}

func TestInbox_TabWithoutChipsKeepsListFocus(t *testing.T) {
	m, _ := newInbox(t, filter.NewMemoryStore())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.ChipsFocused() {
		t.Error("Expected list to keep focus when no chips are shown")
	}
}

func TestInbox_ClearKey(t *testing.T) {
	store := filter.NewMemoryStore()
	store.SetSelection(filter.KeyLabel, filter.Selection{"ui"}, true)
	m, _ := newInbox(t, store)

	m = send(t, m, keyMsg("C"))
	if _, ok := store.Selection(filter.KeyLabel); ok {
		t.Error("Expected label filter absent after C")
	}
	if len(m.FilteredIssues()) != 4 {
		t.Error("Expected all issues after clearing")
	}
}

func TestInbox_ExternalStoreCommitIsPickedUp(t *testing.T) {
	store := filter.NewMemoryStore()
	m, _ := newInbox(t, store)

	store.SetSelection(filter.KeyLabel, filter.Selection{"frontend"}, true)
	m = send(t, m, statusFadeMsg{})

	got := issueIDs(m.FilteredIssues())
	if strings.Join(got, ",") != "bv-2" {
		t.Errorf("Expected bv-2 after external commit, got %v", got)
	}
	if len(m.Chips().Chips()) != 1 {
		t.Error("Expected chip bar to reflect the external commit")
	}
}

func TestInbox_CopyQuery(t *testing.T) {
	store := filter.NewMemoryStore()
	store.SetSelection(filter.KeyLabel, filter.Selection{"backend", "ui"}, true)
	store.SetSelection(filter.KeyStatus, filter.Selection{}, true)
	m, spy := newInbox(t, store)

	m, cmd := sendCmd(t, m, keyMsg("y"))
	if cmd == nil {
		t.Fatal("Expected copy command")
	}
	m = send(t, m, runCmd(cmd))

	if len(spy.texts) != 1 || spy.texts[0] != "label=backend,ui&status=" {
		t.Fatalf("Unexpected copied text %q", spy.texts)
	}
	if !strings.Contains(m.Status(), "Copied") {
		t.Errorf("Expected copy notice, got %q", m.Status())
	}

	m = send(t, m, statusFadeMsg{})
	if m.Status() != "" {
		t.Error("Expected notice to fade")
	}
}

func TestInbox_CopyFailureIsReported(t *testing.T) {
	m, spy := newInbox(t, filter.NewMemoryStore())
	spy.err = errors.New("no clipboard")

	m, cmd := sendCmd(t, m, keyMsg("y"))
	m = send(t, m, runCmd(cmd))
	if !strings.Contains(m.Status(), "no clipboard") {
		t.Errorf("Expected failure notice, got %q", m.Status())
	}
}

func TestInbox_ReloadDropsStaleChips(t *testing.T) {
	store := filter.NewMemoryStore()
	store.SetSelection(filter.KeyLabel, filter.Selection{"backend", "frontend"}, true)

	reloaded := []model.Issue{
		{ID: "bv-1", Title: "Sync engine stalls", Status: model.StatusOpen, Labels: []string{"backend"}},
	}
	spy := &copySpy{}
	m := NewInboxModel(InboxOptions{
		Issues:   inboxIssues(),
		Store:    store,
		Theme:    testTheme(),
		CopyText: spy.copy,
		Reload: func() ([]model.Issue, labels.Palette, error) {
			return reloaded, labels.Palette{}, nil
		},
	})
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	if len(m.Chips().Chips()) != 2 {
		t.Fatal("Expected two chips before reload")
	}

	m, cmd := sendCmd(t, m, FileChangedMsg{Path: ".beads/issues.jsonl"})
	if cmd == nil {
		t.Fatal("Expected reload command")
	}

	m = send(t, m, IssuesReloadedMsg{Issues: reloaded})
	chips := m.Chips().Chips()
	if len(chips) != 1 || chips[0].ID != "backend" {
		t.Errorf("Expected only backend chip after reload, got %+v", chips)
	}
	if !strings.Contains(m.View(), RemoveGlyph+" clear") {
		t.Error("Expected clear control to remain while the selection is non-empty")
	}

	// The stale id stays in the selection; only its chip is gone
	sel, _ := store.Selection(filter.KeyLabel)
	if len(sel) != 2 {
		t.Errorf("Expected selection untouched by reload, got %v", sel)
	}
}

func TestInbox_ReloadErrorKeepsIssues(t *testing.T) {
	m, _ := newInbox(t, filter.NewMemoryStore())

	m = send(t, m, IssuesReloadedMsg{Err: errors.New("boom")})
	if len(m.FilteredIssues()) != 4 {
		t.Error("Expected previous issues kept after failed reload")
	}
	if !strings.Contains(m.Status(), "boom") {
		t.Errorf("Expected error notice, got %q", m.Status())
	}
}

func TestInbox_MouseRemovesChip(t *testing.T) {
	store := filter.NewMemoryStore()
	store.SetSelection(filter.KeyLabel, filter.Selection{"backend", "ui"}, true)
	m, _ := newInbox(t, store)

	var zone hitZone
	for _, z := range m.Chips().layout().zones {
		if z.id == "ui" {
			zone = z
		}
	}

	m = send(t, m, tea.MouseMsg{
		X:      chipBarPadX + zone.x0,
		Y:      headerHeight + chipBarPadY + zone.row,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})

	sel, _ := store.Selection(filter.KeyLabel)
	if strings.Join(sel, ",") != "backend" {
		t.Errorf("Expected [backend] after click, got %v", sel)
	}
	if got := len(m.FilteredIssues()); got != 2 {
		t.Errorf("Expected 2 issues, got %d", got)
	}
}

func TestInbox_HelpOverlay(t *testing.T) {
	m, _ := newInbox(t, filter.NewMemoryStore())

	m = send(t, m, keyMsg("?"))
	if !strings.Contains(m.View(), "Inbox Help") {
		t.Fatal("Expected help overlay")
	}
	m = send(t, m, keyMsg("j"))
	if strings.Contains(m.View(), "Inbox Help") {
		t.Error("Expected any key to close help")
	}
}

func TestInbox_Preview(t *testing.T) {
	m, _ := newInbox(t, filter.NewMemoryStore())

	m = send(t, m, keyMsg("p"))
	if !strings.Contains(m.View(), "Investigate the flaky sync worker.") {
		t.Error("Expected preview of the selected issue")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if strings.Contains(m.View(), "Investigate the flaky sync worker.") {
		t.Error("Expected esc to close the preview")
	}
}

func TestInbox_QuitKey(t *testing.T) {
	m, _ := newInbox(t, filter.NewMemoryStore())

	_, cmd := sendCmd(t, m, keyMsg("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestIssueMarkdown(t *testing.T) {
	reg := labels.NewRegistry(nil, labels.Palette{Labels: []model.Label{{ID: "ui", Name: "User Interface"}}})
	md := issueMarkdown(model.Issue{
		ID: "bv-9", Title: "Title", Status: model.StatusOpen, Priority: 1,
		Labels: []string{"ui", "unknown"}, Assignee: "sam",
	}, reg)

	for _, want := range []string{"# Title", "`bv-9`", "P1", "@sam", "User Interface, unknown"} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected %q in markdown:\n%s", want, md)
		}
	}
}

func TestFormatAge(t *testing.T) {
	now := mustTime(t, "2026-03-10T12:00:00Z")
	tests := []struct {
		ts   string
		want string
	}{
		{"2026-03-10T11:59:30Z", "now"},
		{"2026-03-10T11:15:00Z", "45m"},
		{"2026-03-10T07:00:00Z", "5h"},
		{"2026-03-07T12:00:00Z", "3d"},
		{"2025-12-10T12:00:00Z", "3mo"},
		{"2024-03-10T12:00:00Z", "2y"},
	}
	for _, tt := range tests {
		if got := FormatAge(mustTime(t, tt.ts), now); got != tt.want {
			t.Errorf("FormatAge(%s) = %q, want %q", tt.ts, got, tt.want)
		}
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}
