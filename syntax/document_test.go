package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan(t *testing.T) {
	s := NewSpan(2, 3)
	assert.Equal(t, Span{Start: 2, End: 5}, s)
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.IsEmpty())
	assert.True(t, s.Within(5))
	assert.False(t, s.Within(4))
	assert.False(t, Span{Start: -1, End: 0}.Within(10))
	assert.True(t, s.Contains(Span{Start: 3, End: 4}))
	assert.False(t, s.Contains(Span{Start: 1, End: 4}))
	assert.Equal(t, "Dir", s.Slice("x.Dir"))
	assert.Equal(t, "[2,5)", s.String())
}

func TestTrackingMarkersAreUnique(t *testing.T) {
	a, b := NewTrackingMarker(), NewTrackingMarker()
	assert.NotEqual(t, a, b)
	assert.Equal(t, KindTracking, a.Kind)
	assert.Equal(t, KindSimplify, SimplifyMarker.String())
	assert.Contains(t, a.String(), a.ID)
}

func TestWithAnnotation(t *testing.T) {
	doc := NewAnnotatedDocument("var f = System.IO.Directory;")
	track := NewTrackingMarker()
	target := Span{Start: 8, End: 27}

	annotated, err := doc.WithAnnotation(target, track, SimplifyMarker)
	require.NoError(t, err)

	assert.Equal(t, []Span{target}, annotated.Find(track))
	assert.Equal(t, []Span{target}, annotated.Find(SimplifyMarker))
	assert.ElementsMatch(t, []Marker{track, SimplifyMarker}, annotated.Markers(target))
	// The source document is unchanged.
	assert.Empty(t, doc.Find(track))

	_, err = doc.WithAnnotation(Span{Start: 8, End: 100}, track)
	assert.Error(t, err)
}

func TestReplaceRemapsAnnotations(t *testing.T) {
	//         0         1         2
	//         0123456789012345678901234567
	text := "aa System.IO.Directory bb cc"
	before := Marker{Kind: "before"}
	target := Marker{Kind: "target"}
	outer := Marker{Kind: "outer"}
	after := Marker{Kind: "after"}
	partial := Marker{Kind: "partial"}

	doc := NewAnnotatedDocument(text)
	var err error
	doc, err = doc.WithAnnotation(Span{Start: 0, End: 2}, before)
	require.NoError(t, err)
	doc, err = doc.WithAnnotation(Span{Start: 3, End: 22}, target)
	require.NoError(t, err)
	doc, err = doc.WithAnnotation(Span{Start: 0, End: 25}, outer)
	require.NoError(t, err)
	doc, err = doc.WithAnnotation(Span{Start: 26, End: 28}, after)
	require.NoError(t, err)
	doc, err = doc.WithAnnotation(Span{Start: 10, End: 25}, partial)
	require.NoError(t, err)

	reduced, err := doc.Replace(Span{Start: 3, End: 22}, "Directory")
	require.NoError(t, err)

	assert.Equal(t, "aa Directory bb cc", reduced.Text())
	assert.Equal(t, []Span{{Start: 0, End: 2}}, reduced.Find(before))
	assert.Equal(t, []Span{{Start: 3, End: 12}}, reduced.Find(target))
	assert.Equal(t, []Span{{Start: 0, End: 15}}, reduced.Find(outer))
	assert.Equal(t, []Span{{Start: 16, End: 18}}, reduced.Find(after))
	assert.Empty(t, reduced.Find(partial))

	assert.Equal(t, "Directory", reduced.Find(target)[0].Slice(reduced.Text()))
	assert.Equal(t, "cc", reduced.Find(after)[0].Slice(reduced.Text()))
}

func TestReplaceInsertionPoints(t *testing.T) {
	m := Marker{Kind: "m"}
	doc, err := NewAnnotatedDocument("abcdef").WithAnnotation(Span{Start: 2, End: 4}, m)
	require.NoError(t, err)

	// Insertion at the start pushes the annotation right.
	out, err := doc.Replace(Span{Start: 2, End: 2}, "XX")
	require.NoError(t, err)
	assert.Equal(t, []Span{{Start: 4, End: 6}}, out.Find(m))

	// Insertion at the end leaves it in place.
	out, err = doc.Replace(Span{Start: 4, End: 4}, "XX")
	require.NoError(t, err)
	assert.Equal(t, []Span{{Start: 2, End: 4}}, out.Find(m))

	_, err = doc.Replace(Span{Start: 5, End: 9}, "")
	assert.Error(t, err)
}
