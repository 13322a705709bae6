package api

import (
	"net/http"

	"github.com/dgallion1/docgloss/internal/glossary"
)

type glossaryEntry struct {
	glossary.Term
	PlainDefinition string `json:"plain_definition"`
	Abbreviation    string `json:"abbreviation,omitempty"`
}

type glossaryCategory struct {
	Name  string          `json:"name"`
	Terms []glossaryEntry `json:"terms"`
}

// handleGlossary serves the dictionary as authored, with each term's plain
// definition as carried by its markers. Terms the index skipped are omitted.
func (s *Server) handleGlossary(w http.ResponseWriter, r *http.Request) {
	// Entry ids are positions in the flattened dictionary.
	byID := make(map[int]*glossary.Entry, s.index.Len())
	for _, e := range s.index.Entries() {
		byID[e.ID] = e
	}
	abbrev := make(map[*glossary.Entry]string)
	for _, p := range s.index.Patterns() {
		if p.Abbreviation {
			abbrev[p.Entry] = p.Literal
		}
	}

	cats := make([]glossaryCategory, 0, len(s.dict.Categories))
	id := 0
	for _, c := range s.dict.Categories {
		gc := glossaryCategory{Name: c.Name, Terms: []glossaryEntry{}}
		for _, t := range c.Terms {
			e, ok := byID[id]
			id++
			if !ok {
				continue
			}
			gc.Terms = append(gc.Terms, glossaryEntry{
				Term:            t,
				PlainDefinition: e.PlainDefinition,
				Abbreviation:    abbrev[e],
			})
		}
		cats = append(cats, gc)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": cats,
		"terms":      s.index.Len(),
		"patterns":   len(s.index.Patterns()),
	})
}
