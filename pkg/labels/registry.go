// Package labels resolves label ids to display descriptors.
package labels

import (
	"sort"

	"github.com/Dicklesworthstone/beads_inbox/pkg/model"
)

// Resolver looks up the descriptor for a label id.
// A false result is normal: the id may belong to a deleted label.
type Resolver interface {
	Resolve(id string) (model.Label, bool)
}

// ResolverFunc adapts a plain function to Resolver
type ResolverFunc func(id string) (model.Label, bool)

// Resolve calls f(id)
func (f ResolverFunc) Resolve(id string) (model.Label, bool) {
	return f(id)
}

// Registry is the in-memory label table for one project
type Registry struct {
	byID   map[string]model.Label
	counts map[string]int
}

// NewRegistry builds the label table from the labels used on issues plus
// any palette entries. Palette entries override the derived name and color
// and may define labels that no issue uses yet.
func NewRegistry(issues []model.Issue, palette Palette) *Registry {
	r := &Registry{
		byID:   make(map[string]model.Label),
		counts: make(map[string]int),
	}

	for _, issue := range issues {
		seen := make(map[string]bool, len(issue.Labels))
		for _, name := range issue.Labels {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			r.counts[name]++
			if _, ok := r.byID[name]; !ok {
				r.byID[name] = model.Label{ID: name, Name: name, Color: ColorFor(name)}
			}
		}
	}

	for _, entry := range palette.Labels {
		l := r.byID[entry.ID]
		l.ID = entry.ID
		if entry.Name != "" {
			l.Name = entry.Name
		} else if l.Name == "" {
			l.Name = entry.ID
		}
		if entry.Color != "" {
			l.Color = entry.Color
		} else if l.Color == "" {
			l.Color = ColorFor(l.Name)
		}
		if entry.Description != "" {
			l.Description = entry.Description
		}
		r.byID[entry.ID] = l
	}

	return r
}

// Resolve returns the descriptor for id
func (r *Registry) Resolve(id string) (model.Label, bool) {
	if r == nil {
		return model.Label{}, false
	}
	l, ok := r.byID[id]
	return l, ok
}

// All returns every known label sorted by display name, then id
func (r *Registry) All() []model.Label {
	out := make([]model.Label, 0, len(r.byID))
	for _, l := range r.byID {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName() == out[j].DisplayName() {
			return out[i].ID < out[j].ID
		}
		return out[i].DisplayName() < out[j].DisplayName()
	})
	return out
}

// Count returns how many issues carry the label
func (r *Registry) Count(id string) int {
	return r.counts[id]
}

// Len returns the number of known labels
func (r *Registry) Len() int {
	return len(r.byID)
}
