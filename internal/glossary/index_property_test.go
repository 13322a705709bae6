package glossary

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func dictionaryOf(words []string) *Dictionary {
	terms := make([]Term, len(words))
	for i, w := range words {
		terms[i] = Term{Term: w, Definition: "def " + w}
	}
	return &Dictionary{Categories: []Category{{Name: "gen", Terms: terms}}}
}

func TestIndexProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rebuilding yields identical pattern order", prop.ForAll(
		func(words []string) bool {
			a := Build(dictionaryOf(words), nil).Patterns()
			b := Build(dictionaryOf(words), nil).Patterns()
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i].Literal != b[i].Literal || a[i].Entry.ID != b[i].Entry.ID {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("patterns are ordered by length, longest first", prop.ForAll(
		func(words []string) bool {
			ps := Build(dictionaryOf(words), nil).Patterns()
			for i := 1; i < len(ps); i++ {
				if ps[i-1].length < ps[i].length {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
