// Package filter holds the inbox filter state: per-dimension selections,
// the store contract the UI reads and commits through, and helpers that
// derive things from that state (query strings, badge counts, issue matching).
package filter

import "slices"

// Key identifies a filter dimension
type Key string

const (
	KeyLabel    Key = "label"
	KeyStatus   Key = "status"
	KeyPriority Key = "priority"
	KeyAssignee Key = "assignee"
)

// Keys lists every dimension the inbox knows, in display order
var Keys = []Key{KeyLabel, KeyStatus, KeyPriority, KeyAssignee}

// IsValid returns true if the key is a recognized dimension
func (k Key) IsValid() bool {
	return slices.Contains(Keys, k)
}

// Selection is the ordered set of values applied for one dimension.
// Order is insertion order. Toggle keeps it free of duplicates.
type Selection []string

// Contains reports whether value is selected
func (s Selection) Contains(value string) bool {
	return slices.Contains(s, value)
}

// Clone returns a copy that shares no backing array with s.
// A nil selection stays nil.
func (s Selection) Clone() Selection {
	if s == nil {
		return nil
	}
	out := make(Selection, len(s))
	copy(out, s)
	return out
}

// Toggle returns coll with value removed if present, or appended if absent.
// The input is never modified. Removing drops every occurrence, so removing
// twice yields the same result as removing once.
func Toggle[S ~[]E, E comparable](coll S, value E) S {
	if !slices.Contains(coll, value) {
		out := make(S, 0, len(coll)+1)
		out = append(out, coll...)
		return append(out, value)
	}

	out := make(S, 0, len(coll)-1)
	for _, v := range coll {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
