package ui

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/beads_inbox/pkg/filter"
	"github.com/Dicklesworthstone/beads_inbox/pkg/labels"
	"github.com/Dicklesworthstone/beads_inbox/pkg/model"
)

func pickerIssues() []model.Issue {
	return []model.Issue{
		{ID: "bv-1", Title: "One", Status: model.StatusOpen, Labels: []string{"backend", "storage"}},
		{ID: "bv-2", Title: "Two", Status: model.StatusOpen, Labels: []string{"backend"}},
		{ID: "bv-3", Title: "Three", Status: model.StatusClosed, Labels: []string{"frontend"}},
	}
}

func newPicker(t *testing.T) (LabelPickerModel, *filter.MemoryStore) {
	t.Helper()
	store := filter.NewMemoryStore()
	reg := labels.NewRegistry(pickerIssues(), labels.Palette{})
	m := NewLabelPickerModel(reg, store, testTheme())
	m.SetSize(80, 30)
	m.Show()
	return m, store
}

func TestLabelPicker_ListsLabelsSorted(t *testing.T) {
	m, _ := newPicker(t)

	if m.ItemCount() != 3 {
		t.Fatalf("Expected 3 labels, got %d", m.ItemCount())
	}
	item, ok := m.SelectedItem()
	if !ok || item.Label.ID != "backend" {
		t.Fatalf("Expected backend highlighted first, got %+v", item)
	}
	if item.IssueCount != 2 {
		t.Errorf("Expected backend count 2, got %d", item.IssueCount)
	}
}

func TestLabelPicker_ToggleBothDirections(t *testing.T) {
	m, store := newPicker(t)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected change command")
	}
	sel, ok := store.Selection(filter.KeyLabel)
	if !ok || !reflect.DeepEqual(sel, filter.Selection{"backend"}) {
		t.Fatalf("Expected [backend], got %v", sel)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sel, _ = store.Selection(filter.KeyLabel)
	if !reflect.DeepEqual(sel, filter.Selection{"backend", "frontend"}) {
		t.Fatalf("Expected insertion order [backend frontend], got %v", sel)
	}

	// Toggling again removes
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sel, ok = store.Selection(filter.KeyLabel)
	if !ok || !reflect.DeepEqual(sel, filter.Selection{"frontend"}) {
		t.Fatalf("Expected [frontend], got %v", sel)
	}
	msg, _ := runCmd(cmd).(LabelFilterChangedMsg)
	if !msg.Present || !reflect.DeepEqual(msg.Selection, filter.Selection{"frontend"}) {
		t.Errorf("Unexpected message %+v", msg)
	}
}

func TestLabelPicker_FuzzySearch(t *testing.T) {
	m, _ := newPicker(t)

	m, _ = m.Update(keyMsg("stor"))
	if m.SearchValue() != "stor" {
		t.Fatalf("Expected search value 'stor', got %q", m.SearchValue())
	}
	if m.ItemCount() != 1 {
		t.Fatalf("Expected 1 match, got %d", m.ItemCount())
	}
	item, _ := m.SelectedItem()
	if item.Label.ID != "storage" {
		t.Errorf("Expected storage, got %s", item.Label.ID)
	}

	m, _ = m.Update(keyMsg("zzz"))
	if m.ItemCount() != 0 {
		t.Errorf("Expected no matches, got %d", m.ItemCount())
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("Expected enter with no rows to do nothing")
	}
	if !strings.Contains(m.View(), "No matching labels") {
		t.Error("Expected empty state in view")
	}
}

func TestLabelPicker_EscCloses(t *testing.T) {
	m, _ := newPicker(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.IsVisible() {
		t.Error("Expected picker hidden after esc")
	}
	if m.View() != "" {
		t.Error("Expected empty view when hidden")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("Expected hidden picker to ignore keys")
	}
}

func TestLabelPicker_MarksSelected(t *testing.T) {
	m, store := newPicker(t)
	store.SetSelection(filter.KeyLabel, filter.Selection{"storage"}, true)

	view := m.View()
	if !strings.Contains(view, "1 selected") {
		t.Error("Expected selected count in title")
	}

	var marked []string
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, "✓") {
			marked = append(marked, line)
		}
	}
	if len(marked) != 1 || !strings.Contains(marked[0], "storage") {
		t.Errorf("Expected only storage marked, got %q", marked)
	}
}

func TestLabelPicker_SetRegistryRefreshes(t *testing.T) {
	m, _ := newPicker(t)

	palette := labels.Palette{Labels: []model.Label{{ID: "triage", Name: "Triage", Color: "#ff79c6"}}}
	m.SetRegistry(labels.NewRegistry(pickerIssues(), palette))

	if m.ItemCount() != 4 {
		t.Errorf("Expected 4 labels after adding palette entry, got %d", m.ItemCount())
	}
}
