// Package annotate wraps the first occurrence of each glossary term in
// rendered content with a marker element. The matching rules live in Matcher
// and operate on plain text runs; HTML and Tree adapt them to markup strings
// and parsed node trees.
package annotate

import (
	"sort"

	"github.com/dgallion1/docgloss/internal/glossary"
)

// Match is a claimed span of a text run, in byte offsets.
type Match struct {
	Start   int
	End     int
	Pattern *glossary.Pattern
}

// Matcher carries the per-render consumed set. A term is annotated at most
// once across all runs fed to the same Matcher. Not safe for concurrent use;
// create one per render.
type Matcher struct {
	index    *glossary.Index
	consumed map[int]bool
}

// NewMatcher starts a fresh render over ix.
func NewMatcher(ix *glossary.Index) *Matcher {
	return &Matcher{index: ix, consumed: make(map[int]bool)}
}

// Done reports whether every indexed term has been consumed.
func (m *Matcher) Done() bool {
	return len(m.consumed) >= m.index.Len()
}

// Match claims spans in run. Patterns are tried longest first; each
// not-yet-consumed pattern claims its first occurrence that does not overlap
// an earlier claim, which consumes its term. The result is ordered by Start.
func (m *Matcher) Match(run string) []Match {
	if run == "" || m.Done() {
		return nil
	}

	var claimed []Match
	for _, p := range m.index.Patterns() {
		if m.consumed[p.Entry.ID] {
			continue
		}
		for _, loc := range p.FindAll(run) {
			if overlaps(claimed, loc[0], loc[1]) {
				continue
			}
			claimed = append(claimed, Match{Start: loc[0], End: loc[1], Pattern: p})
			m.consumed[p.Entry.ID] = true
			break
		}
	}

	sort.Slice(claimed, func(i, j int) bool { return claimed[i].Start < claimed[j].Start })
	return claimed
}

func overlaps(claimed []Match, start, end int) bool {
	for _, c := range claimed {
		if start < c.End && c.Start < end {
			return true
		}
	}
	return false
}
