package labels

import (
	"sort"

	"github.com/Dicklesworthstone/beads_inbox/pkg/model"
)

// Stats counts issues per status for one label
type Stats struct {
	Label      string `json:"label"`
	Total      int    `json:"total"`
	Open       int    `json:"open"`
	InProgress int    `json:"in_progress"`
	Blocked    int    `json:"blocked"`
	Closed     int    `json:"closed"`
}

// Progress is the closed fraction, 0 when the label has no issues
func (s Stats) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Closed) / float64(s.Total)
}

// StatsResult is the per-label breakdown of an issue set
type StatsResult struct {
	Stats     map[string]*Stats
	Unlabeled int
}

// ComputeStats aggregates label usage. Empty and repeated labels on one
// issue are counted once.
func ComputeStats(issues []model.Issue) StatsResult {
	res := StatsResult{Stats: make(map[string]*Stats)}

	for _, issue := range issues {
		if len(issue.Labels) == 0 {
			res.Unlabeled++
			continue
		}

		seen := make(map[string]bool, len(issue.Labels))
		for _, label := range issue.Labels {
			if label == "" || seen[label] {
				continue
			}
			seen[label] = true

			s, ok := res.Stats[label]
			if !ok {
				s = &Stats{Label: label}
				res.Stats[label] = s
			}
			s.Total++

			switch issue.Status {
			case model.StatusOpen:
				s.Open++
			case model.StatusInProgress:
				s.InProgress++
			case model.StatusBlocked:
				s.Blocked++
			case model.StatusClosed:
				s.Closed++
			}
		}
	}

	return res
}

// Get returns the stats for label, zero when unused
func (r StatsResult) Get(label string) Stats {
	if s, ok := r.Stats[label]; ok {
		return *s
	}
	return Stats{Label: label}
}

// Top returns labels sorted by issue count, descending, ties alphabetical
func (r StatsResult) Top() []string {
	out := make([]string, 0, len(r.Stats))
	for label := range r.Stats {
		out = append(out, label)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := r.Stats[out[i]], r.Stats[out[j]]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return out[i] < out[j]
	})
	return out
}
