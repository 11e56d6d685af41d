package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelsCommand_Table(t *testing.T) {
	repo := newTestRepo(t)
	run(t, repo, "filters", "toggle", "ui")

	stdout, _ := run(t, repo, "labels")

	for _, col := range []string{"ID", "NAME", "COLOR", "ISSUES", "OPEN", "CLOSED", "DONE", "SELECTED"} {
		assert.Contains(t, stdout, col)
	}
	assert.Less(t, strings.Index(stdout, "backend"), strings.Index(stdout, "storage"))
	assert.Less(t, strings.Index(stdout, "storage"), strings.Index(stdout, "| ui"))
	assert.Equal(t, 1, strings.Count(stdout, "yes"))
}

func TestLabelsCommand_JSON(t *testing.T) {
	repo := newTestRepo(t)
	run(t, repo, "filters", "toggle", "backend")

	stdout, _ := run(t, repo, "labels", "--output", "json")

	var rows []labelRow
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 3)

	backend := rows[0]
	assert.Equal(t, "backend", backend.ID)
	assert.Equal(t, 2, backend.Issues)
	assert.Equal(t, 1, backend.Open)
	assert.Equal(t, 1, backend.Closed)
	assert.Equal(t, 50, backend.Done)
	assert.True(t, backend.Selected)

	assert.Equal(t, "storage", rows[1].ID)
	assert.False(t, rows[1].Selected)
	assert.Equal(t, "ui", rows[2].ID)
	assert.NotEmpty(t, rows[2].Color)
}

func TestLabelsCommand_Palette(t *testing.T) {
	repo := newTestRepo(t)
	palette := `labels:
  - id: ui
    name: Frontend
    color: "#FF79C6"
  - id: docs
    description: Documentation
`
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".beads", "labels.yaml"), []byte(palette), 0o600))

	stdout, _ := run(t, repo, "labels", "-o", "json")

	var rows []labelRow
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))

	byID := make(map[string]labelRow, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	require.Len(t, byID, 4)
	assert.Equal(t, "Frontend", byID["ui"].Name)
	assert.Equal(t, "#ff79c6", byID["ui"].Color)
	assert.Equal(t, 0, byID["docs"].Issues, "palette-only labels are listed with no issues")
}

func TestLabelsCommand_SortByCount(t *testing.T) {
	repo := newTestRepo(t)
	palette := "labels:\n  - id: aaa-unused\n"
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".beads", "labels.yaml"), []byte(palette), 0o600))

	stdout, _ := run(t, repo, "labels", "--sort", "count", "-o", "json")

	var rows []labelRow
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"backend", "storage", "ui", "aaa-unused"}, ids)
}

func TestLabelsCommand_InvalidSort(t *testing.T) {
	_, _, err := executeCommand(inRepo(newTestRepo(t), "labels", "--sort", "color")...)
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestLabelsCommand_InvalidOutput(t *testing.T) {
	_, _, err := executeCommand(inRepo(newTestRepo(t), "labels", "--output", "xml")...)
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}
