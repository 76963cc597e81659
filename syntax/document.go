package syntax

import (
	"sort"

	"github.com/teranos/qualify/errors"
)

// annotation binds one marker to one span.
type annotation struct {
	marker Marker
	span   Span
}

// AnnotatedDocument is immutable document text plus marked spans.
// Every rewrite goes through Replace, which carries the markers along.
type AnnotatedDocument struct {
	text        string
	annotations []annotation
}

// NewAnnotatedDocument wraps text with no annotations.
func NewAnnotatedDocument(text string) *AnnotatedDocument {
	return &AnnotatedDocument{text: text}
}

// Text returns the document text.
func (d *AnnotatedDocument) Text() string {
	return d.text
}

// WithAnnotation returns a copy of d with every marker attached to span.
func (d *AnnotatedDocument) WithAnnotation(span Span, markers ...Marker) (*AnnotatedDocument, error) {
	if !span.Within(len(d.text)) {
		return nil, errors.Newf("annotation span %s outside document of %d bytes", span, len(d.text))
	}

	out := d.clone(len(markers))
	for _, m := range markers {
		out.annotations = append(out.annotations, annotation{marker: m, span: span})
	}
	return out, nil
}

// Find returns the spans carrying m, in document order.
func (d *AnnotatedDocument) Find(m Marker) []Span {
	var spans []Span
	for _, a := range d.annotations {
		if a.marker == m {
			spans = append(spans, a.span)
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// Markers returns the markers attached to exactly span.
func (d *AnnotatedDocument) Markers(span Span) []Marker {
	var ms []Marker
	for _, a := range d.annotations {
		if a.span == span {
			ms = append(ms, a.marker)
		}
	}
	return ms
}

// Replace returns a copy of d with span replaced by text.
//
// Annotations follow the edit: those after it shift, those equal to or
// containing it grow or shrink with it, those before it stay. An annotation
// that partially overlaps the edit no longer describes any text and is dropped.
func (d *AnnotatedDocument) Replace(span Span, text string) (*AnnotatedDocument, error) {
	if !span.Within(len(d.text)) {
		return nil, errors.Newf("replace span %s outside document of %d bytes", span, len(d.text))
	}

	delta := len(text) - span.Len()
	out := &AnnotatedDocument{
		text:        d.text[:span.Start] + text + d.text[span.End:],
		annotations: make([]annotation, 0, len(d.annotations)),
	}

	for _, a := range d.annotations {
		s := a.span
		switch {
		case s == span:
			s.End += delta
		case span.End <= s.Start:
			s.Start += delta
			s.End += delta
		case s.End <= span.Start:
		case s.Contains(span):
			s.End += delta
		default:
			continue
		}
		out.annotations = append(out.annotations, annotation{marker: a.marker, span: s})
	}
	return out, nil
}

func (d *AnnotatedDocument) clone(extra int) *AnnotatedDocument {
	out := &AnnotatedDocument{
		text:        d.text,
		annotations: make([]annotation, len(d.annotations), len(d.annotations)+extra),
	}
	copy(out.annotations, d.annotations)
	return out
}
