package router

import "strings"

// Route binds one expert to the sector-label patterns that activate it.
type Route struct {
	Expert   string
	Patterns []string
}

// Table is an ordered routing table. Order is semantically load-bearing:
// first match wins across the registry, which is how narrow verticals beat
// the broad ones that would otherwise swallow them. It must stay a literal
// ordered list, never a map.
type Table struct {
	routes     []Route
	generalist string
}

func NewTable(routes []Route, generalist string) *Table {
	return &Table{routes: routes, generalist: generalist}
}

// Generalist returns the fallback expert name.
func (t *Table) Generalist() string { return t.generalist }

// Classify resolves a free-text sector label to the first matching expert.
// Empty input never matches. With fallback enabled an unmatched sector
// resolves to the generalist; with it disabled the second return is false,
// which callers must treat as "unhandled", distinct from "generalist
// selected".
func (t *Table) Classify(sector string, fallback bool) (string, bool) {
	s := normalize(sector)
	if s != "" {
		for _, r := range t.routes {
			for _, p := range r.Patterns {
				if matches(s, p) {
					return r.Expert, true
				}
			}
		}
	}
	if fallback {
		return t.generalist, true
	}
	return "", false
}

// ClassifyAll resolves every expert whose pattern set matches, deduplicated,
// in table order. The generalist is appended only when the list is otherwise
// empty and fallback is enabled.
func (t *Table) ClassifyAll(sector string, fallback bool) []string {
	out := []string{}
	seen := map[string]bool{}
	s := normalize(sector)
	if s != "" {
		for _, r := range t.routes {
			if seen[r.Expert] {
				continue
			}
			for _, p := range r.Patterns {
				if matches(s, p) {
					out = append(out, r.Expert)
					seen[r.Expert] = true
					break
				}
			}
		}
	}
	if len(out) == 0 && fallback {
		out = append(out, t.generalist)
	}
	return out
}

func normalize(sector string) string {
	return strings.ToLower(strings.TrimSpace(sector))
}

// matches tests pattern membership in an already-normalized sector label.
// Short patterns (<= 3 chars) only match at a word boundary anchored at
// start-of-string, whitespace, or '/', so "ai" cannot fire inside
// "blockchain" but still fires in "ai/ml". Longer patterns use plain
// substring containment; collision risk is negligible at that length.
func matches(sector, pattern string) bool {
	p := strings.ToLower(pattern)
	if len(p) > 3 {
		return strings.Contains(sector, p)
	}
	for i := 0; ; {
		j := strings.Index(sector[i:], p)
		if j < 0 {
			return false
		}
		at := i + j
		if at == 0 || boundary(sector[at-1]) {
			return true
		}
		i = at + 1
		if i >= len(sector) {
			return false
		}
	}
}

func boundary(c byte) bool {
	return c == ' ' || c == '\t' || c == '/'
}
