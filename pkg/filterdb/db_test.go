package filterdb

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Dicklesworthstone/beads_inbox/pkg/filter"
)

func openTemp(t *testing.T, path, project string) *DB {
	t.Helper()
	db, err := Open(path, project)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return db
}

func TestCommitSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "inbox.db")

	db := openTemp(t, path, "proj")
	if err := db.Commit(filter.KeyLabel, filter.Selection{"l2", "l1"}, true); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := db.Commit(filter.KeyStatus, filter.Selection{}, true); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	db.Close()

	db = openTemp(t, path, "proj")
	defer db.Close()

	sel, ok := db.Selection(filter.KeyLabel)
	if !ok || !reflect.DeepEqual(sel, filter.Selection{"l2", "l1"}) {
		t.Errorf("label = %v (ok=%v), want [l2 l1]", sel, ok)
	}

	status, ok := db.Selection(filter.KeyStatus)
	if !ok {
		t.Error("present-empty status should survive reopen")
	}
	if len(status) != 0 {
		t.Errorf("status = %v, want empty", status)
	}

	if _, ok := db.Selection(filter.KeyPriority); ok {
		t.Error("priority was never set and should be absent")
	}
}

func TestClearDeletesRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inbox.db")

	db := openTemp(t, path, "proj")
	filter.Set(db, filter.KeyLabel, filter.Selection{"a"})
	filter.Clear(db, filter.KeyLabel)
	if _, ok := db.Selection(filter.KeyLabel); ok {
		t.Error("label should be absent after clear")
	}
	db.Close()

	db = openTemp(t, path, "proj")
	defer db.Close()
	if _, ok := db.Selection(filter.KeyLabel); ok {
		t.Error("label should stay absent after reopen")
	}
	if q := filter.Encode(db); q != "" {
		t.Errorf("Encode = %q, want empty", q)
	}
}

func TestProjectsAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inbox.db")

	a := openTemp(t, path, "a")
	filter.Set(a, filter.KeyLabel, filter.Selection{"only-a"})
	a.Close()

	b := openTemp(t, path, "b")
	defer b.Close()
	if _, ok := b.Selection(filter.KeyLabel); ok {
		t.Error("project b should not see project a's filters")
	}
	if b.Project() != "b" {
		t.Errorf("Project = %q", b.Project())
	}
}

func TestVersionTracksCommits(t *testing.T) {
	db := openTemp(t, filepath.Join(t.TempDir(), "inbox.db"), "proj")
	defer db.Close()

	v := db.Version()
	filter.Set(db, filter.KeyLabel, filter.Selection{"a"})
	if db.Version() <= v {
		t.Error("Version should increase after commit")
	}
	if len(db.Snapshot()) != 1 {
		t.Errorf("Snapshot = %v", db.Snapshot())
	}
}
