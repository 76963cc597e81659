// Package syntax is the contract between completion and a language's
// syntax model: spans, parse trees, annotated documents and the
// simplification engine that rewrites them.
package syntax

import "fmt"

// Span is a half-open byte range [Start, End) into a document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewSpan returns the span of length n starting at start.
func NewSpan(start, n int) Span {
	return Span{Start: start, End: start + n}
}

// Len returns the number of bytes covered.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.End == s.Start
}

// Contains reports whether o lies inside s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Within reports whether s is a valid range of a document of n bytes.
func (s Span) Within(n int) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= n
}

// Slice returns the text covered by s.
func (s Span) Slice(text string) string {
	return text[s.Start:s.End]
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
