package filter

import (
	"fmt"
	"net/url"
	"strings"
)

// Encode renders the active filters as a query string such as
// "label=backend,ui&status=open". Absent dimensions are omitted; present
// but empty ones encode as "label=". Keys are written in the given order,
// or in Keys order when keys is empty.
func Encode(r Reader, keys ...Key) string {
	if len(keys) == 0 {
		keys = Keys
	}

	var parts []string
	for _, k := range keys {
		sel, ok := r.Selection(k)
		if !ok {
			continue
		}
		escaped := make([]string, len(sel))
		for i, v := range sel {
			escaped[i] = url.QueryEscape(v)
		}
		parts = append(parts, string(k)+"="+strings.Join(escaped, ","))
	}
	return strings.Join(parts, "&")
}

// Decode parses a query produced by Encode. Keys missing from the query
// are absent from the result; "label=" yields a present empty selection.
func Decode(query string) (map[Key]Selection, error) {
	out := make(map[Key]Selection)
	query = strings.TrimPrefix(strings.TrimSpace(query), "?")
	if query == "" {
		return out, nil
	}

	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		name, raw, found := strings.Cut(part, "=")
		if !found {
			return nil, fmt.Errorf("malformed filter %q: missing '='", part)
		}
		key := Key(name)
		if !key.IsValid() {
			return nil, fmt.Errorf("unknown filter key %q", name)
		}

		sel := Selection{}
		if raw != "" {
			for _, v := range strings.Split(raw, ",") {
				value, err := url.QueryUnescape(v)
				if err != nil {
					return nil, fmt.Errorf("decode %s value %q: %w", key, v, err)
				}
				if value == "" || sel.Contains(value) {
					continue
				}
				sel = append(sel, value)
			}
		}
		out[key] = sel
	}
	return out, nil
}

// ActiveCount returns how many of keys carry a non-empty selection.
// This is the number shown on the filter badge.
func ActiveCount(r Reader, keys ...Key) int {
	if len(keys) == 0 {
		keys = Keys
	}
	n := 0
	for _, k := range keys {
		if sel, ok := r.Selection(k); ok && len(sel) > 0 {
			n++
		}
	}
	return n
}
