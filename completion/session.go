package completion

import (
	"github.com/teranos/qualify/syntax"
)

// Session is one completion interaction: the catalog crossed with the
// replacement span at the caret. It owns its candidates and items.
type Session struct {
	span       syntax.Span
	candidates []Candidate
}

// NewSession builds one candidate per catalog entry, in catalog order,
// each replacing span. No candidate is marked default.
func NewSession(catalog *Catalog, span syntax.Span) *Session {
	s := &Session{
		span:       span,
		candidates: make([]Candidate, 0, catalog.Len()),
	}
	for _, e := range catalog.entries {
		s.candidates = append(s.candidates, Candidate{
			DisplayText:       e.Label,
			InlineDescription: e.Label,
			FullDescription:   e.Description,
			Replacement:       TextEdit{Start: span.Start, Length: span.Len(), NewText: e.Text},
			IsDefault:         false,
		})
	}
	return s
}

// Span returns the range every candidate replaces.
func (s *Session) Span() syntax.Span {
	return s.span
}

// Candidates returns a copy of the session's candidates.
func (s *Session) Candidates() []Candidate {
	return append([]Candidate(nil), s.candidates...)
}

// PendingItems serializes every candidate for the host.
func (s *Session) PendingItems(provider string) []PendingItem {
	items := make([]PendingItem, len(s.candidates))
	for i, c := range s.candidates {
		items[i] = pendingItemFor(c, provider)
	}
	return items
}

// List assembles the items for display under rules.
func (s *Session) List(provider string, rules Rules) List {
	items := make([]Item, len(s.candidates))
	for i, c := range s.candidates {
		priority := MatchPriorityDefault
		if c.IsDefault {
			priority = MatchPriorityPreselect
		}
		items[i] = Item{
			DisplayText:       c.DisplayText,
			InlineDescription: c.InlineDescription,
			FullDescription:   c.FullDescription,
			Priority:          priority,
			Pending:           pendingItemFor(c, provider),
		}
	}
	return List{Items: items, Span: s.span, Rules: rules}
}

func pendingItemFor(c Candidate, provider string) PendingItem {
	return PendingItem{
		Start:        c.Replacement.Start,
		Length:       c.Replacement.Length,
		NewText:      c.Replacement.NewText,
		Description:  c.FullDescription,
		ProviderName: provider,
	}
}
