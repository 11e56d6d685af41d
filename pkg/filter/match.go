package filter

import (
	"strconv"

	"github.com/Dicklesworthstone/beads_inbox/pkg/model"
)

// Match reports whether issue passes every active dimension in r.
// An absent or empty selection places no constraint on its dimension.
// Within a dimension, values are OR'ed.
func Match(issue model.Issue, r Reader) bool {
	if sel, ok := r.Selection(KeyLabel); ok && len(sel) > 0 {
		hit := false
		for _, l := range sel {
			if issue.HasLabel(l) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	if sel, ok := r.Selection(KeyStatus); ok && len(sel) > 0 {
		if !sel.Contains(string(issue.Status)) {
			return false
		}
	}

	if sel, ok := r.Selection(KeyPriority); ok && len(sel) > 0 {
		if !sel.Contains(strconv.Itoa(issue.Priority)) {
			return false
		}
	}

	if sel, ok := r.Selection(KeyAssignee); ok && len(sel) > 0 {
		if !sel.Contains(issue.Assignee) {
			return false
		}
	}

	return true
}

// Apply returns the issues that pass Match, preserving order
func Apply(issues []model.Issue, r Reader) []model.Issue {
	out := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if Match(issue, r) {
			out = append(out, issue)
		}
	}
	return out
}
