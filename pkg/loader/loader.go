package loader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/beads_inbox/pkg/model"
)

// IssuesFile is the issues location relative to the repository root
const IssuesFile = ".beads/issues.jsonl"

// ResolveRepoPath returns repoPath, or the working directory when empty
func ResolveRepoPath(repoPath string) (string, error) {
	if repoPath != "" {
		return repoPath, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return wd, nil
}

// IssuesPath returns the JSONL path for a repository
func IssuesPath(repoPath string) string {
	return filepath.Join(repoPath, IssuesFile)
}

// LoadIssues reads issues from the .beads/issues.jsonl file in the given repository path.
func LoadIssues(repoPath string) ([]model.Issue, error) {
	repoPath, err := ResolveRepoPath(repoPath)
	if err != nil {
		return nil, err
	}
	return LoadIssuesFromFile(IssuesPath(repoPath))
}

// LoadIssuesFromFile reads issues directly from a specific JSONL file path.
func LoadIssuesFromFile(path string) ([]model.Issue, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no beads issues found at %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open issues file: %w", err)
	}
	defer file.Close()

	var issues []model.Issue
	scanner := bufio.NewScanner(file)
	// Issues with long descriptions exceed the default 64KB token size
	const maxCapacity = 1024 * 1024 * 10 // 10MB
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var issue model.Issue
		if err := json.Unmarshal(line, &issue); err != nil {
			// Skip malformed lines but continue loading the rest
			slog.Debug("skipping malformed issue line",
				slog.String("path", path),
				slog.Int("line", lineNum),
				slog.String("error", err.Error()),
			)
			continue
		}
		if err := issue.Validate(); err != nil {
			slog.Debug("skipping invalid issue",
				slog.String("path", path),
				slog.Int("line", lineNum),
				slog.String("error", err.Error()),
			)
			continue
		}
		issues = append(issues, issue)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading issues file: %w", err)
	}

	return issues, nil
}
