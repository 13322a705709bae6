package glossary

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Entry is a term as seen by the annotators: the authored term plus its
// precomputed plain-text definition.
type Entry struct {
	ID              int
	Term            Term
	PlainDefinition string
}

// Pattern is one compiled surface form. A term yields one pattern for its
// literal phrase and, for "Full Name (ABBR)" terms, a second case-sensitive
// pattern for the abbreviation. Patterns are ordered by the rune count of
// their own Literal, so an abbreviation ranks by the abbreviation's length.
type Pattern struct {
	Entry        *Entry
	Literal      string
	Abbreviation bool

	re     *regexp.Regexp
	length int
}

// FindAll returns the [start, end) byte offsets of every non-overlapping
// match of the pattern in s.
func (p *Pattern) FindAll(s string) [][]int {
	return p.re.FindAllStringIndex(s, -1)
}

// String returns the compiled expression.
func (p *Pattern) String() string {
	return p.re.String()
}

// Index is the compiled, immutable set of glossary patterns ordered by
// surface-form length, longest first. It is safe for concurrent use.
type Index struct {
	entries  []*Entry
	patterns []*Pattern
}

var abbreviationShape = regexp.MustCompile(`^(.+?)\s*\(([^()\s]+)\)$`)

// Build compiles the dictionary into an Index. Entries without usable literal
// text, or whose literal repeats an earlier surface form, are skipped with a
// warning; Build never fails.
func Build(dict *Dictionary, log *slog.Logger) *Index {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	ix := &Index{}
	seen := make(map[string]bool)
	for i, t := range dict.Terms() {
		literal := normalizeLiteral(t.Term)
		if literal == "" {
			log.Warn("skipping glossary term", "index", i, "term", t.Term, "reason", "no literal text")
			continue
		}

		full, abbr := splitAbbreviation(literal)
		if full == "" {
			log.Warn("skipping glossary term", "index", i, "term", t.Term, "reason", "empty phrase before abbreviation")
			continue
		}

		if seen[literalKey(full)] {
			log.Warn("skipping glossary term", "index", i, "term", t.Term, "reason", "duplicate literal")
			continue
		}

		entry := &Entry{ID: i, Term: t, PlainDefinition: t.PlainDefinition()}

		fullRe, err := compilePhrase(full, abbr)
		if err != nil {
			log.Warn("skipping glossary term", "index", i, "term", t.Term, "reason", err.Error())
			continue
		}
		seen[literalKey(full)] = true
		ix.entries = append(ix.entries, entry)
		ix.patterns = append(ix.patterns, &Pattern{
			Entry:   entry,
			Literal: full,
			re:      fullRe,
			length:  utf8.RuneCountInString(full),
		})

		if abbr == "" {
			continue
		}
		if seen[literalKey(abbr)] {
			log.Warn("skipping glossary abbreviation", "index", i, "term", t.Term, "reason", "duplicate literal")
			continue
		}
		abbrRe, err := regexp.Compile(bounded(regexp.QuoteMeta(abbr), abbr))
		if err != nil {
			log.Warn("skipping glossary abbreviation", "index", i, "term", t.Term, "reason", err.Error())
			continue
		}
		seen[literalKey(abbr)] = true
		ix.patterns = append(ix.patterns, &Pattern{
			Entry:        entry,
			Literal:      abbr,
			Abbreviation: true,
			re:           abbrRe,
			length:       utf8.RuneCountInString(abbr),
		})
	}

	// Stable: equal lengths keep dictionary order, so builds are deterministic.
	sort.SliceStable(ix.patterns, func(a, b int) bool {
		return ix.patterns[a].length > ix.patterns[b].length
	})

	log.Info("glossary index built", "terms", len(ix.entries), "patterns", len(ix.patterns))
	return ix
}

// Patterns returns the ordered patterns. The slice is shared; callers must
// not modify it.
func (ix *Index) Patterns() []*Pattern {
	if ix == nil {
		return nil
	}
	return ix.patterns
}

// Entries returns the indexed terms in dictionary order.
func (ix *Index) Entries() []*Entry {
	if ix == nil {
		return nil
	}
	return ix.entries
}

// Len reports the number of indexed terms.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// literalKey identifies a surface form regardless of case and spacing.
func literalKey(literal string) string {
	return cases.Fold().String(strings.Join(strings.Fields(literal), " "))
}

func normalizeLiteral(s string) string {
	return norm.NFC.String(PlainText(s))
}

// splitAbbreviation recognizes "Full Name (ABBR)". The parenthetical counts
// as an abbreviation only if it is a single token with an upper-case letter.
func splitAbbreviation(literal string) (full, abbr string) {
	m := abbreviationShape.FindStringSubmatch(literal)
	if m == nil || !strings.ContainsFunc(m[2], unicode.IsUpper) {
		return literal, ""
	}
	return strings.TrimSpace(m[1]), m[2]
}

// compilePhrase builds the case-insensitive whole-word pattern for a phrase.
// Inner whitespace matches any whitespace run so wrapped lines still match.
// When the term carries an abbreviation, a trailing "(ABBR)" is swallowed
// into the same match.
func compilePhrase(full, abbr string) (*regexp.Regexp, error) {
	words := strings.Fields(full)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	expr := bounded(strings.Join(words, `\s+`), full)
	if abbr != "" {
		expr += `(?:\s*\(` + regexp.QuoteMeta(abbr) + `\))?`
	}
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", full, err)
	}
	return re, nil
}

// bounded adds \b on each side of expr whose edge character in literal is a
// word character. \b next to punctuation would demand a neighbouring letter.
func bounded(expr, literal string) string {
	first, _ := utf8.DecodeRuneInString(literal)
	last, _ := utf8.DecodeLastRuneInString(literal)
	if isWord(first) {
		expr = `\b` + expr
	}
	if isWord(last) {
		expr += `\b`
	}
	return expr
}

func isWord(r rune) bool {
	return r == '_' || (r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}
